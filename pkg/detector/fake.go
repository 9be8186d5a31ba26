package detector

import "context"

// Fake is a scripted detector for tests and the offline demo mode.
type Fake struct {
	Key   string
	Score float64
	Err   error
	// Block makes Analyze wait for ctx cancellation, simulating a hung detector.
	Block bool
	// PanicMsg makes Analyze panic, simulating a crashing detector.
	PanicMsg string

	// Calls counts Analyze invocations. Fakes are per-test, not shared.
	Calls int
}

func (f *Fake) ID() string { return f.Key }

func (f *Fake) Analyze(ctx context.Context, _ []byte) (Score, error) {
	f.Calls++
	if f.PanicMsg != "" {
		panic(f.PanicMsg)
	}
	if f.Block {
		<-ctx.Done()
		return Score{}, ctx.Err()
	}
	if f.Err != nil {
		return Score{}, f.Err
	}
	return Score{Value: f.Score}, nil
}

// FakeForensic is a scripted forensic analyzer for tests.
type FakeForensic struct {
	Key    string
	Signal ForensicSignal
	Err    error
	// Block makes Inspect wait for ctx cancellation, simulating a hung analyzer.
	Block bool
	// PanicMsg makes Inspect panic, simulating a crashing analyzer.
	PanicMsg string
}

func (f *FakeForensic) ID() string { return f.Key }

func (f *FakeForensic) Inspect(ctx context.Context, _ []byte) (ForensicSignal, error) {
	if f.PanicMsg != "" {
		panic(f.PanicMsg)
	}
	if f.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Signal, nil
}
