package checkpoint

import (
	"sync"

	"github.com/nguyentantai21042004/digest-flow/internal/logger"
)

// FileName is the hidden record kept in each source folder
const FileName = ".checkpoint.json"

type implStore struct {
	logger logger.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a file-backed Store
func New(log logger.Logger) Store {
	return &implStore{
		logger: log,
		locks:  make(map[string]*sync.Mutex),
	}
}
