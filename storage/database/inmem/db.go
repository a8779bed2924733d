package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/forum"
)

type (
	DB struct {
		question *questionTable
		vote     *voteTable
	}

	questionTable struct {
		sync.RWMutex
		table map[string]*forum.Question
		order []string // ids in insertion order
	}

	voteKey struct {
		userID     string
		targetID   string
		targetType forum.TargetType
	}

	voteTable struct {
		sync.RWMutex
		table map[voteKey]*forum.Vote
	}
)

func Open() (*DB, error) {
	db := &DB{
		question: &questionTable{table: make(map[string]*forum.Question)},
		vote:     &voteTable{table: make(map[voteKey]*forum.Vote)},
	}
	return db, nil
}
