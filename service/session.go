/*
Copyright (C) 2026  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package service

import "sync"
import "time"
import "sync/atomic"
import "github.com/google/uuid"
import "github.com/google/btree"

/* threadsafe session storage */

// Session is one open websocket connection
type Session struct {
	ID     string
	Remote string
	Opened time.Time

	evaluations atomic.Int64
	failures    atomic.Int64
}

// SessionInfo is the JSON view of a session
type SessionInfo struct {
	ID          string    `json:"id"`
	Remote      string    `json:"remote"`
	Opened      time.Time `json:"opened"`
	Evaluations int64     `json:"evaluations"`
	Failures    int64     `json:"failures"`
}

func (s *Session) count(failed bool) {
	s.evaluations.Add(1)
	if failed {
		s.failures.Add(1)
	}
}

func (s *Session) Info() SessionInfo {
	return SessionInfo{s.ID, s.Remote, s.Opened, s.evaluations.Load(), s.failures.Load()}
}

// Registry keeps the open sessions ordered by id
type Registry struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[*Session]
}

func NewRegistry() *Registry {
	return &Registry{tree: btree.NewG[*Session](8, func(a, b *Session) bool {
		return a.ID < b.ID
	})}
}

func (r *Registry) Open(remote string) *Session {
	s := &Session{ID: uuid.NewString(), Remote: remote, Opened: time.Now()}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree.ReplaceOrInsert(s)
	return s
}

func (r *Registry) Close(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree.Delete(s)
}

func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.tree.Get(&Session{ID: id})
	if !ok {
		return nil
	}
	return s
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tree.Len()
}

// List returns all sessions in ascending id order
func (r *Registry) List() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]SessionInfo, 0, r.tree.Len())
	r.tree.Ascend(func(s *Session) bool {
		result = append(result, s.Info())
		return true
	})
	return result
}
