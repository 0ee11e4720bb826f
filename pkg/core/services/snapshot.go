package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jakechorley/rostergrid/pkg/core/model"
)

// SnapshotFetcher produces a fresh table snapshot for a window
type SnapshotFetcher func(ctx context.Context, window model.Window) (*model.Table, error)

// SnapshotHolder owns the currently displayed snapshot. Every refresh is stamped
// with a sequence number when it starts; a response is only installed if no
// later-started refresh has been installed already, so responses arriving out
// of order never replace a fresher snapshot. A failed refresh leaves the
// current snapshot in place.
type SnapshotHolder struct {
	fetch  SnapshotFetcher
	logger *zap.Logger

	mu           sync.Mutex
	nextSeq      uint64
	installedSeq uint64
	current      *model.Table
}

func NewSnapshotHolder(fetch SnapshotFetcher, logger *zap.Logger) *SnapshotHolder {
	return &SnapshotHolder{fetch: fetch, logger: logger}
}

// RefreshResult describes what a refresh did
type RefreshResult struct {
	Table     *model.Table // snapshot installed after the refresh
	Installed bool         // the fetched snapshot replaced the previous one
	Stale     bool         // a later refresh was installed first; the response was dropped
}

// Refresh fetches a snapshot and installs it unless it is stale. On fetch error
// the previous snapshot is kept and returned alongside the error; no retry is made.
func (h *SnapshotHolder) Refresh(ctx context.Context, window model.Window) (RefreshResult, error) {
	h.mu.Lock()
	h.nextSeq++
	seq := h.nextSeq
	h.mu.Unlock()

	table, err := h.fetch(ctx, window)

	h.mu.Lock()
	defer h.mu.Unlock()

	if err != nil {
		h.logger.Warn("Snapshot refresh failed, keeping previous snapshot",
			zap.Uint64("seq", seq), zap.Error(err))
		return RefreshResult{Table: h.current}, err
	}

	if seq < h.installedSeq {
		h.logger.Info("Dropping stale snapshot",
			zap.Uint64("seq", seq),
			zap.Uint64("installed_seq", h.installedSeq),
			zap.String("snapshot_id", table.ID.String()))
		return RefreshResult{Table: h.current, Stale: true}, nil
	}

	h.installedSeq = seq
	h.current = table
	h.logger.Debug("Installed snapshot", zap.Uint64("seq", seq), zap.String("snapshot_id", table.ID.String()))
	return RefreshResult{Table: table, Installed: true}, nil
}

// Current returns the installed snapshot, or nil before the first successful refresh
func (h *SnapshotHolder) Current() *model.Table {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}
