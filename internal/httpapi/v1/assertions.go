package v1

import "github.com/TheuusWmv/ProjetoFynx-sub000/internal/storage/memory"

// Compile-time interface assertions for the in-memory Store against HTTP API interfaces.
var (
	_ Repository       = (*memory.Store)(nil)
	_ IdempotencyStore = (*memory.Store)(nil)
)
