package pagefit

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

type recordingOracle struct {
	mu    sync.Mutex
	sizes []float64
	pages func(size float64) int
}

func (o *recordingOracle) CountPages(_ context.Context, _ string, size float64) (int, error) {
	o.mu.Lock()
	o.sizes = append(o.sizes, size)
	o.mu.Unlock()
	return o.pages(size), nil
}

func fitsBelow(limit float64) func(float64) int {
	return func(size float64) int {
		if size <= limit {
			return 1
		}
		return 2
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFit(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		pages    func(float64) int
		size     float64
		pagesOut int
		hitFloor bool
		probes   int
	}{
		{
			name:     "fits at start",
			cfg:      DefaultConfig(),
			pages:    fitsBelow(100),
			size:     30,
			pagesOut: 1,
			probes:   1,
		},
		{
			name:     "coarse descent",
			cfg:      DefaultConfig(),
			pages:    fitsBelow(20),
			size:     20,
			pagesOut: 1,
			probes:   21,
		},
		{
			name:     "never fits",
			cfg:      DefaultConfig(),
			pages:    func(float64) int { return 3 },
			size:     6,
			pagesOut: 3,
			hitFloor: true,
			probes:   49,
		},
		{
			name:     "min equals start",
			cfg:      Config{MinFontSize: 12, StartFontSize: 12, CoarseStep: 0.5, RefineStep: 0.5, MaxRefineAttempts: 10},
			pages:    func(float64) int { return 2 },
			size:     12,
			pagesOut: 2,
			hitFloor: true,
			probes:   1,
		},
		{
			name:     "start below floor",
			cfg:      Config{MinFontSize: 6, StartFontSize: 4, CoarseStep: 0.5, RefineStep: 0.5, MaxRefineAttempts: 10},
			pages:    fitsBelow(100),
			size:     6,
			pagesOut: 1,
			hitFloor: true,
			probes:   1,
		},
		{
			name:     "refinement finds fit",
			cfg:      Config{MinFontSize: 6, StartFontSize: 10, CoarseStep: 1, RefineStep: 0.1, MaxRefineAttempts: 10},
			pages:    fitsBelow(6.65),
			size:     6.6,
			pagesOut: 1,
			probes:   8,
		},
		{
			name:     "refinement budget exhausted",
			cfg:      Config{MinFontSize: 6, StartFontSize: 10, CoarseStep: 1, RefineStep: 0.1, MaxRefineAttempts: 2},
			pages:    func(float64) int { return 2 },
			size:     6.8,
			pagesOut: 2,
			probes:   6,
		},
		{
			name:     "floor off the coarse grid",
			cfg:      Config{MinFontSize: 6.2, StartFontSize: 30, CoarseStep: 0.5, RefineStep: 0.5, MaxRefineAttempts: 10},
			pages:    func(float64) int { return 2 },
			size:     6.2,
			pagesOut: 2,
			hitFloor: true,
			probes:   49,
		},
		{
			name:     "zero steps fall back to defaults, no refinement",
			cfg:      Config{MinFontSize: 6, StartFontSize: 8},
			pages:    func(float64) int { return 2 },
			size:     6.5,
			pagesOut: 2,
			probes:   4,
		},
		{
			name: "plateau in page counts",
			cfg:  DefaultConfig(),
			pages: func(size float64) int {
				switch {
				case size > 25:
					return 3
				case size > 15:
					return 2
				default:
					return 1
				}
			},
			size:     15,
			pagesOut: 1,
			probes:   31,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			oracle := &recordingOracle{pages: tc.pages}
			res, err := New(oracle, tc.cfg).Fit(context.Background(), "text")
			if err != nil {
				t.Fatalf("Fit returned error: %v", err)
			}
			if !approx(res.FontSize, tc.size) {
				t.Errorf("FontSize = %v, want %v", res.FontSize, tc.size)
			}
			if res.Pages != tc.pagesOut {
				t.Errorf("Pages = %d, want %d", res.Pages, tc.pagesOut)
			}
			if res.HitFloor != tc.hitFloor {
				t.Errorf("HitFloor = %v, want %v", res.HitFloor, tc.hitFloor)
			}
			if res.Probes != tc.probes || len(oracle.sizes) != tc.probes {
				t.Errorf("probes = %d (oracle saw %d), want %d", res.Probes, len(oracle.sizes), tc.probes)
			}
		})
	}
}

func TestFitNeverIncreasesSize(t *testing.T) {
	oracle := &recordingOracle{pages: func(float64) int { return 5 }}
	cfg := Config{MinFontSize: 6, StartFontSize: 9, CoarseStep: 0.7, RefineStep: 0.2, MaxRefineAttempts: 10}
	if _, err := New(oracle, cfg).Fit(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(oracle.sizes); i++ {
		if oracle.sizes[i] > oracle.sizes[i-1] {
			t.Fatalf("size increased at probe %d: %v", i, oracle.sizes)
		}
	}
	if last := oracle.sizes[len(oracle.sizes)-1]; last < cfg.MinFontSize {
		t.Errorf("probed below floor: %v", last)
	}
}

func TestFitOracleError(t *testing.T) {
	boom := errors.New("layout failed")
	calls := 0
	oracle := OracleFunc(func(_ context.Context, _ string, _ float64) (int, error) {
		calls++
		if calls == 3 {
			return 0, boom
		}
		return 2, nil
	})

	_, err := New(oracle, DefaultConfig()).Fit(context.Background(), "text")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if calls != 3 {
		t.Errorf("oracle called %d times after failure, want 3", calls)
	}
}

func TestFitConcurrent(t *testing.T) {
	oracle := &recordingOracle{pages: fitsBelow(12)}
	f := New(oracle, DefaultConfig())

	var wg sync.WaitGroup
	results := make([]Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.Fit(context.Background(), "text")
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if res.FontSize != 12 || res.Pages != 1 || res.Probes != 37 {
			t.Errorf("result %d = %+v", i, res)
		}
	}
}
