package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/uago3c/uago/internal/catalog"
)

func TestBatchKeepsInputOrder(t *testing.T) {
	checker := &stubChecker{distances: []float64{0.1}, tolerance: 0.35}
	o := NewOrchestrator(DefaultConfig(), stubMeasurer{}, catalog.New(),
		stubRenderer{}, checker, nil, nil)

	var inputs []BatchInput
	for i := 0; i < 5; i++ {
		inputs = append(inputs, BatchInput{Name: fmt.Sprintf("img-%d", i), Bitmap: testInput()})
	}

	results := o.Batch(context.Background(), inputs, 3)
	if len(results) != len(inputs) {
		t.Fatalf("got %d results for %d inputs", len(results), len(inputs))
	}
	for i, res := range results {
		if res.Name != inputs[i].Name {
			t.Fatalf("result %d named %q, want %q", i, res.Name, inputs[i].Name)
		}
		if res.Err != nil {
			t.Fatalf("%s: %v", res.Name, res.Err)
		}
		if res.Run.Verdict != VerdictAccepted {
			t.Fatalf("%s verdict = %s, want accepted", res.Name, res.Run.Verdict)
		}
	}
}

func TestBatchIsolatesFatalInputs(t *testing.T) {
	checker := &stubChecker{distances: []float64{0.1}, tolerance: 0.35}
	o := NewOrchestrator(DefaultConfig(), stubMeasurer{}, catalog.New(),
		stubRenderer{}, checker, nil, nil)

	inputs := []BatchInput{
		{Name: "good", Bitmap: testInput()},
		{Name: "bad", Bitmap: nil},
		{Name: "also-good", Bitmap: testInput()},
	}

	results := o.Batch(context.Background(), inputs, 2)
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("healthy inputs failed: %v / %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Fatal("nil bitmap should fail its own run")
	}
}

func TestBatchEmptyInputs(t *testing.T) {
	o := NewOrchestrator(DefaultConfig(), stubMeasurer{}, catalog.New(),
		stubRenderer{}, &stubChecker{distances: []float64{1}, tolerance: 0.35}, nil, nil)
	if results := o.Batch(context.Background(), nil, 4); len(results) != 0 {
		t.Fatalf("empty batch returned %d results", len(results))
	}
}

func TestBatchClampsWorkerCount(t *testing.T) {
	checker := &stubChecker{distances: []float64{0.1}, tolerance: 0.35}
	o := NewOrchestrator(DefaultConfig(), stubMeasurer{}, catalog.New(),
		stubRenderer{}, checker, nil, nil)

	inputs := []BatchInput{{Name: "only", Bitmap: testInput()}}
	results := o.Batch(context.Background(), inputs, 0)
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("batch with zero workers failed: %+v", results)
	}
}
