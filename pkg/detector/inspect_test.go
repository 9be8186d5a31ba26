package detector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectSuccess(t *testing.T) {
	a := NewAdapter(time.Second)
	sig, err := a.Inspect(context.Background(),
		&FakeForensic{Key: "watermark", Signal: WatermarkSignal{Detected: true, Source: "SynthID"}}, []byte("img"))

	require.NoError(t, err)
	wm, ok := sig.(WatermarkSignal)
	require.True(t, ok)
	assert.True(t, wm.Detected)
	assert.Equal(t, "SynthID", wm.Source)
}

func TestInspectErrorPassesThrough(t *testing.T) {
	a := NewAdapter(time.Second)
	_, err := a.Inspect(context.Background(),
		&FakeForensic{Key: "c2pa", Err: errors.New("manifest parse failed")}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest parse failed")
}

func TestInspectHungAnalyzerTimesOut(t *testing.T) {
	a := NewAdapter(50 * time.Millisecond)

	start := time.Now()
	_, err := a.Inspect(context.Background(), &FakeForensic{Key: "watermark", Block: true}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), time.Second, "Inspect must return promptly at the deadline")
}

func TestInspectRecoversPanic(t *testing.T) {
	a := NewAdapter(time.Second)
	_, err := a.Inspect(context.Background(), &FakeForensic{Key: "c2pa", PanicMsg: "nil manifest"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Contains(t, err.Error(), "nil manifest")
}

func TestInspectHonorsCallerCancellation(t *testing.T) {
	a := NewAdapter(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Inspect(ctx, &FakeForensic{Key: "watermark", Block: true}, nil)
	require.Error(t, err)
}
