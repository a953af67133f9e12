package sync_test

import (
	"github.com/ademchenko/nutrimirror/internal/local"
	"github.com/ademchenko/nutrimirror/internal/remote"
	"github.com/ademchenko/nutrimirror/internal/sync"
)

// The production stores must keep satisfying the sync contracts.
var (
	_ sync.LocalStore  = (*local.DB)(nil)
	_ sync.RemoteStore = (*remote.Client)(nil)
)
