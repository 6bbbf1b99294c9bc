// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interrupt

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_SignalSetsFlagOnce(t *testing.T) {
	m := NewMonitor(context.Background())
	defer m.Stop()

	assert.False(t, m.Interrupted(), "fresh monitor is not interrupted")

	m.sigs <- os.Interrupt

	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Done was not closed after signal")
	}
	assert.True(t, m.Interrupted(), "flag should be set after signal")

	// Listener has exited; a second signal just sits in the buffer.
	m.sigs <- os.Interrupt
	assert.True(t, m.Interrupted())
}

func TestMonitor_TriggerIsIdempotent(t *testing.T) {
	m := NewMonitor(context.Background())
	defer m.Stop()

	m.Trigger()
	m.Trigger()

	assert.True(t, m.Interrupted())
	select {
	case <-m.Done():
	default:
		t.Fatal("Done should be closed after Trigger")
	}
}

func TestMonitor_StopWithoutSignal(t *testing.T) {
	m := NewMonitor(context.Background())
	m.Stop()

	require.False(t, m.Interrupted(), "stopping without a signal is not an interrupt")
	select {
	case <-m.Done():
		t.Fatal("Done must stay open without an interrupt")
	default:
	}
}
