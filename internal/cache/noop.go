package cache

import "context"

type noopPathCache struct{}

// Noop returns a PathCache that never hits and stores nothing.
func Noop() PathCache { return noopPathCache{} }

func (noopPathCache) Get(context.Context, int, int) (*PathRecord, bool, error) { return nil, false, nil }
func (noopPathCache) Set(context.Context, int, int, PathRecord) error          { return nil }
func (noopPathCache) Purge(context.Context) (int, error)                       { return 0, nil }
func (noopPathCache) Close() error                                             { return nil }
