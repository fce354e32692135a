package store

import (
	"context"
	"strings"
	"sync"
)

// fakeRedisClient is an in-memory stand-in for redisClient, the same
// in-package-fake-over-mocking-framework style used throughout this
// module's other packages.
type fakeRedisClient struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	sets   map[string]map[string]bool
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]bool),
	}
}

func (f *fakeRedisClient) Ping(context.Context) error { return nil }

func (f *fakeRedisClient) HGetAll(_ context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRedisClient) HGet(_ context.Context, key, field string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.hashes[key][field]
	return v, ok, nil
}

func (f *fakeRedisClient) SMembers(_ context.Context, key string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sets[key]))
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRedisClient) SIsMember(_ context.Context, key, member string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key][member], nil
}

func (f *fakeRedisClient) ScanKeys(_ context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for k := range f.hashes {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeRedisClient) Exec(_ context.Context, fn func(pipeliner)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&fakePipe{client: f})
	return nil
}

type fakePipe struct {
	client *fakeRedisClient
}

func (p *fakePipe) HSet(key string, fields map[string]string) {
	h, ok := p.client.hashes[key]
	if !ok {
		h = make(map[string]string)
		p.client.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
}

func (p *fakePipe) HDel(key string, fields ...string) {
	h := p.client.hashes[key]
	for _, f := range fields {
		delete(h, f)
	}
}

func (p *fakePipe) Del(keys ...string) {
	for _, k := range keys {
		delete(p.client.hashes, k)
	}
}

func (p *fakePipe) SAdd(key string, members ...string) {
	s, ok := p.client.sets[key]
	if !ok {
		s = make(map[string]bool)
		p.client.sets[key] = s
	}
	for _, m := range members {
		s[m] = true
	}
}

func (p *fakePipe) SRem(key string, members ...string) {
	s := p.client.sets[key]
	for _, m := range members {
		delete(s, m)
	}
}

func (p *fakePipe) Rename(oldKey, newKey string) {
	if h, ok := p.client.hashes[oldKey]; ok {
		p.client.hashes[newKey] = h
		delete(p.client.hashes, oldKey)
	}
}
