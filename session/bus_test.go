// Copyright (C) 2025 obsws-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/obsws-project/obsws/events"
	"github.com/obsws-project/obsws/protocol"
)

// A subscriber to one type receives matching events and nothing else.
func TestSubscribe_Filtering(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	program, err := Subscribe[events.CurrentProgramSceneChanged](s)
	require.NoError(t, err)
	defer program.Close()

	studio, err := Subscribe[events.StudioModeStateChanged](s)
	require.NoError(t, err)
	defer studio.Close()

	srv.pushEvent(events.TypeCurrentProgramSceneChanged, protocol.SubscriptionScenes,
		map[string]any{"sceneName": "Scene 2"})

	select {
	case ev := <-program.C:
		require.Equal(t, "Scene 2", ev.SceneName)
	case <-time.After(5 * time.Second):
		t.Fatal("program subscriber received nothing")
	}

	select {
	case ev := <-studio.C:
		t.Fatalf("studio subscriber received unexpected event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOnce_FirstOfType(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	got := make(chan events.SceneCreated, 1)
	errs := make(chan error, 1)
	go func() {
		ev, err := Once[events.SceneCreated](testContext(t), s)
		errs <- err
		got <- ev
	}()

	// Give the subscriber time to attach before pushing.
	require.Eventually(t, func() bool {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		return len(s.bus.subs) > 0
	}, 5*time.Second, 5*time.Millisecond)

	srv.pushEvent(events.TypeSceneCreated, protocol.SubscriptionScenes,
		map[string]any{"sceneName": "New Scene", "isGroup": false})

	require.NoError(t, <-errs)
	require.Equal(t, "New Scene", (<-got).SceneName)
}

func TestSubscribeTypes_MultiType(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	stream, err := s.SubscribeTypes(events.TypeSceneCreated, events.TypeSceneRemoved)
	require.NoError(t, err)
	defer stream.Close()

	srv.pushEvent(events.TypeSceneCreated, protocol.SubscriptionScenes,
		map[string]any{"sceneName": "A"})

	select {
	case ev := <-stream.C:
		created, ok := ev.(*events.SceneCreated)
		require.True(t, ok)
		require.Equal(t, "A", created.SceneName)
	case <-time.After(5 * time.Second):
		t.Fatal("no event on multi-type stream")
	}

	srv.pushEvent(events.TypeSceneRemoved, protocol.SubscriptionScenes,
		map[string]any{"sceneName": "A"})

	select {
	case ev := <-stream.C:
		removed, ok := ev.(*events.SceneRemoved)
		require.True(t, ok)
		require.Equal(t, "A", removed.SceneName)
	case <-time.After(5 * time.Second):
		t.Fatal("no second event on multi-type stream")
	}
}

func TestSubscribeTypes_UnknownType(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	_, err := s.SubscribeTypes("NoSuchEvent")
	require.ErrorIs(t, err, events.ErrUnknownEventType)
}

// A decode failure terminates the one subscriber it hit; others keep
// receiving.
func TestSubscribe_DecodeErrorIsolated(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	broken, err := Subscribe[events.StudioModeStateChanged](s)
	require.NoError(t, err)

	// A subscriber to a different type, which must keep receiving.
	stream, err := s.SubscribeTypes(events.TypeSceneCreated)
	require.NoError(t, err)
	defer stream.Close()

	srv.pushEvent(events.TypeStudioModeStateChanged, protocol.SubscriptionGeneral,
		map[string]any{"studioModeEnabled": "not-a-bool"})

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-broken.C:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 5*time.Millisecond)
	require.Error(t, broken.Err())

	srv.pushEvent(events.TypeSceneCreated, protocol.SubscriptionScenes,
		map[string]any{"sceneName": "Still alive"})

	select {
	case ev := <-stream.C:
		require.Equal(t, "Still alive", ev.(*events.SceneCreated).SceneName)
	case <-time.After(5 * time.Second):
		t.Fatal("healthy subscriber stopped receiving")
	}
}

// A subscriber that never drains its slot is dropped, not waited on.
func TestSubscribe_LaggedSubscriberDropped(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	lagged, err := Subscribe[events.SceneCreated](s)
	require.NoError(t, err)

	// Fill the raw slot, the typed forwarder, and the typed slot,
	// then overflow.
	for i := 0; i < 5; i++ {
		srv.pushEvent(events.TypeSceneCreated, protocol.SubscriptionScenes,
			map[string]any{"sceneName": "flood"})
	}

	require.Eventually(t, func() bool {
		return lagged.Err() == ErrSubscriberLagged
	}, 5*time.Second, 5*time.Millisecond)
}

// After a disconnect no subscription receives events and new
// subscriptions are rejected.
func TestSubscribe_DisconnectEndsStreams(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	sub, err := Subscribe[events.SceneCreated](s)
	require.NoError(t, err)

	srv.closeWithCode(int(protocol.CloseSessionInvalidated), "bye")

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.C:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 5*time.Millisecond)
	require.ErrorIs(t, sub.Err(), ErrDisconnected)

	_, err = Subscribe[events.SceneCreated](s)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestSubscribe_CloseDetaches(t *testing.T) {
	srv := newMockServer(t)
	s := connect(t, srv, nil)

	sub, err := Subscribe[events.SceneCreated](s)
	require.NoError(t, err)
	sub.Close()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub.C:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, sub.Err())
}
