package mongo

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// stubDialers swaps the dial seams for counting stubs and restores them
// when the test ends. No real connection is made.
func stubDialers(t *testing.T) (connects, disconnects *int32) {
	t.Helper()

	sharedClientsMu.Lock()
	sharedClients = map[string]*sharedClient{}
	sharedClientsMu.Unlock()

	oldConnect := connectMongo
	oldPing := pingMongo
	oldDisconnect := disconnectMongo

	connects = new(int32)
	disconnects = new(int32)

	connectMongo = func(ctx context.Context, clientOpts *options.ClientOptions) (*mongo.Client, error) {
		atomic.AddInt32(connects, 1)
		cli, err := mongo.NewClient(options.Client().ApplyURI("mongodb://example.com"))
		if err != nil {
			return nil, errors.Wrap(err, "new client")
		}
		return cli, nil
	}
	pingMongo = func(ctx context.Context, cli *mongo.Client) error {
		return nil
	}
	disconnectMongo = func(ctx context.Context, cli *mongo.Client) error {
		atomic.AddInt32(disconnects, 1)
		return nil
	}

	t.Cleanup(func() {
		connectMongo = oldConnect
		pingMongo = oldPing
		disconnectMongo = oldDisconnect

		sharedClientsMu.Lock()
		sharedClients = map[string]*sharedClient{}
		sharedClientsMu.Unlock()
	})

	return connects, disconnects
}

// TestNewDBSharesClient verifies that NewDB reuses one shared client and only
// disconnects when the last handle closes.
func TestNewDBSharesClient(t *testing.T) {
	connects, disconnects := stubDialers(t)

	ctx := context.Background()
	dial := DialInfo{
		Addr:   "localhost:27017",
		DBName: "db",
		User:   "user",
		Pwd:    "pwd",
	}

	db1, err := NewDB(ctx, dial)
	require.NoError(t, err)
	db2, err := NewDB(ctx, dial)
	require.NoError(t, err)

	require.Equal(t, int32(1), atomic.LoadInt32(connects))
	require.Same(t, db1.(*db).shared, db2.(*db).shared)

	require.NoError(t, db1.Close(ctx))
	require.Equal(t, int32(0), atomic.LoadInt32(disconnects))

	require.NoError(t, db2.Close(ctx))
	require.Equal(t, int32(1), atomic.LoadInt32(disconnects))
}

// TestNewDBSharesClientAcrossDatabases verifies that different database names
// on one host share the same client.
func TestNewDBSharesClientAcrossDatabases(t *testing.T) {
	connects, _ := stubDialers(t)

	ctx := context.Background()
	dbA, err := NewDB(ctx, DialInfo{Addr: "localhost:27017", DBName: "dbA", User: "user", Pwd: "pwd"})
	require.NoError(t, err)
	dbB, err := NewDB(ctx, DialInfo{Addr: "localhost:27017", DBName: "dbB", User: "user", Pwd: "pwd"})
	require.NoError(t, err)

	require.Same(t, dbA.(*db).shared, dbB.(*db).shared)
	require.Equal(t, int32(1), atomic.LoadInt32(connects))
	require.Equal(t, "dbA", dbA.CurrentDB().Name())
	require.Equal(t, "dbB", dbB.CurrentDB().Name())

	require.NoError(t, dbA.Close(ctx))
	require.NoError(t, dbB.Close(ctx))
}

// TestNewDBDifferentURI verifies that different auth settings create
// separate clients.
func TestNewDBDifferentURI(t *testing.T) {
	connects, _ := stubDialers(t)

	ctx := context.Background()
	dbA, err := NewDB(ctx, DialInfo{Addr: "localhost:27017", DBName: "dbA", User: "userA", Pwd: "pwd"})
	require.NoError(t, err)
	dbB, err := NewDB(ctx, DialInfo{Addr: "localhost:27017", DBName: "dbB", User: "userB", Pwd: "pwd"})
	require.NoError(t, err)

	require.NotSame(t, dbA.(*db).shared, dbB.(*db).shared)
	require.Equal(t, int32(2), atomic.LoadInt32(connects))

	require.NoError(t, dbA.Close(ctx))
	require.NoError(t, dbB.Close(ctx))
}
