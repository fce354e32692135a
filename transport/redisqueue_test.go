package transport

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListClient is an in-memory stand-in for listClient, the same
// in-package-fake-over-mocking-framework style used throughout this
// module's other packages.
type fakeListClient struct {
	mu    sync.Mutex
	cond  *sync.Cond
	lists map[string][]string
}

func newFakeListClient() *fakeListClient {
	f := &fakeListClient{lists: make(map[string][]string)}
	f.cond = sync.NewCond(&f.mu)
	return f
}

func (f *fakeListClient) RPush(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[key] = append(f.lists[key], value)
	f.cond.Broadcast()
	return nil
}

func (f *fakeListClient) BLPop(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.lists[key]) == 0 {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		f.cond.Wait()
	}
	v := f.lists[key][0]
	f.lists[key] = f.lists[key][1:]
	return v, nil
}

func TestRedisQueue_SendReceive_RoundTrips(t *testing.T) {
	client := newFakeListClient()
	q := newWithClient(client, "syncd:requests")

	rec := Record{Key: "oid:0x0100000000000001", Op: OpSet, Fields: []FieldValue{{Name: "SAI_PORT_ATTR_SPEED", Value: "100000"}}}
	require.NoError(t, q.Send(context.Background(), rec))

	got, err := q.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRedisQueue_Receive_BlocksUntilSend(t *testing.T) {
	client := newFakeListClient()
	q := newWithClient(client, "syncd:requests")

	done := make(chan Record, 1)
	go func() {
		rec, err := q.Receive(context.Background())
		require.NoError(t, err)
		done <- rec
	}()

	rec := Record{Key: "SAI_OBJECT_TYPE_FDB_ENTRY:{}", Op: OpCreate}
	require.NoError(t, q.Send(context.Background(), rec))

	got := <-done
	assert.Equal(t, rec, got)
}
