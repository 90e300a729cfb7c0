package progress

import (
	"testing"

	"github.com/vidgrab/vidgrab/internal/model"
)

func collect(events *[]model.ProgressEvent) Sink {
	return func(ev model.ProgressEvent) {
		*events = append(*events, ev)
	}
}

func TestTranslator_PercentMonotonic(t *testing.T) {
	var events []model.ProgressEvent
	tr := NewTranslator(collect(&events))

	total := int64(1000)
	for _, downloaded := range []int64{0, 100, 400, 400, 999, 1000} {
		tr.Downloading(Update{DownloadedBytes: downloaded, TotalBytes: &total})
	}

	lastPercent := -1.0
	for i, ev := range events {
		p, ok := ev.Percent()
		if !ok {
			t.Fatalf("event %d: percent should be known", i)
		}
		if p < lastPercent {
			t.Errorf("event %d: percent %.1f decreased below %.1f", i, p, lastPercent)
		}
		if p < 0 || p > 100 {
			t.Errorf("event %d: percent %.1f out of [0,100]", i, p)
		}
		lastPercent = p
	}
}

func TestTranslator_CounterRegression(t *testing.T) {
	var events []model.ProgressEvent
	tr := NewTranslator(collect(&events))

	tr.Downloading(Update{DownloadedBytes: 500})
	tr.Downloading(Update{DownloadedBytes: 100}) // fragment restart

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[1].DownloadedBytes < events[0].DownloadedBytes {
		t.Errorf("Downloaded bytes regressed: %d after %d",
			events[1].DownloadedBytes, events[0].DownloadedBytes)
	}
}

func TestTranslator_NoTotalNoPercent(t *testing.T) {
	var events []model.ProgressEvent
	tr := NewTranslator(collect(&events))

	tr.Downloading(Update{DownloadedBytes: 4096})

	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if _, ok := events[0].Percent(); ok {
		t.Error("Percent should be unknown when no total was reported")
	}
}

func TestTranslator_EstimateFallback(t *testing.T) {
	var events []model.ProgressEvent
	tr := NewTranslator(collect(&events))

	exact := int64(2000)
	estimate := int64(1000)

	tr.Downloading(Update{DownloadedBytes: 500, TotalBytesEstimate: &estimate})
	tr.Downloading(Update{DownloadedBytes: 600, TotalBytes: &exact, TotalBytesEstimate: &estimate})

	if events[0].TotalBytes == nil || *events[0].TotalBytes != estimate {
		t.Error("Estimate should be used when no exact total exists")
	}
	if events[1].TotalBytes == nil || *events[1].TotalBytes != exact {
		t.Error("Exact total should be preferred over the estimate")
	}
}

func TestTranslator_TerminalUniqueness(t *testing.T) {
	var events []model.ProgressEvent
	tr := NewTranslator(collect(&events))

	tr.Downloading(Update{DownloadedBytes: 100})
	tr.Finished()
	tr.Finished()
	tr.Error("late failure")
	tr.Downloading(Update{DownloadedBytes: 200})

	terminals := 0
	for _, ev := range events {
		if ev.Phase.IsTerminal() {
			terminals++
		}
	}
	if terminals != 1 {
		t.Errorf("Expected exactly 1 terminal event, got %d", terminals)
	}

	last := events[len(events)-1]
	if !last.Phase.IsTerminal() {
		t.Errorf("No event may follow the terminal one, last phase was %s", last.Phase)
	}
}

func TestTranslator_ErrorTerminal(t *testing.T) {
	var events []model.ProgressEvent
	tr := NewTranslator(collect(&events))

	tr.Downloading(Update{DownloadedBytes: 100})
	tr.Error("HTTP Error 403: Forbidden")
	tr.Finished()

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[1].Phase != model.PhaseError {
		t.Errorf("Expected error phase, got %s", events[1].Phase)
	}
	if events[1].Message != "HTTP Error 403: Forbidden" {
		t.Errorf("Engine message not preserved: %q", events[1].Message)
	}
}

func TestTranslator_NilSink(t *testing.T) {
	tr := NewTranslator(nil)
	tr.Downloading(Update{DownloadedBytes: 1})
	tr.Finished()
}
