package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/guide-life-agents/agent/contract"
)

var testDefaults = Prompts{Supervisor: "asistente general", FinalOutput: "resume la conversación"}

type failingStore struct {
	loadErr error
	saveErr error
}

func (f failingStore) Load(context.Context) (Prompts, error) { return Prompts{}, f.loadErr }
func (f failingStore) Save(context.Context, Prompts) error   { return f.saveErr }

func TestNewServiceUsesDefaultsWhenEmpty(t *testing.T) {
	t.Parallel()

	svc, err := NewService(context.Background(), NewMemoryStore(), testDefaults)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if got := svc.Current(); got != testDefaults {
		t.Fatalf("Current() = %+v, want defaults", got)
	}
}

func TestNewServiceUsesDefaultsWhenStoreFails(t *testing.T) {
	t.Parallel()

	svc, err := NewService(context.Background(), failingStore{loadErr: errors.New("down")}, testDefaults)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if got := svc.Current(); got != testDefaults {
		t.Fatalf("Current() = %+v, want defaults", got)
	}
}

func TestNewServiceFillsMissingFields(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	_ = store.Save(context.Background(), Prompts{Supervisor: "  guardado  "})

	svc, err := NewService(context.Background(), store, testDefaults)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	got := svc.Current()
	if got.Supervisor != "guardado" || got.FinalOutput != testDefaults.FinalOutput {
		t.Fatalf("Current() = %+v", got)
	}
}

func TestServiceUpdate(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	svc, err := NewService(context.Background(), store, testDefaults)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	var applied []Prompts
	svc.OnUpdate(func(p Prompts) { applied = append(applied, p) })

	next := Prompts{Supervisor: " nuevo ", FinalOutput: "final nuevo"}
	got, err := svc.Update(context.Background(), next)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Supervisor != "nuevo" {
		t.Fatalf("Update() = %+v, want trimmed prompt", got)
	}
	if svc.Current() != got {
		t.Fatalf("Current() = %+v, want %+v", svc.Current(), got)
	}
	if len(applied) != 1 || applied[0] != got {
		t.Fatalf("observers got %+v", applied)
	}
	stored, err := store.Load(context.Background())
	if err != nil || stored != got {
		t.Fatalf("store.Load() = %+v, %v", stored, err)
	}
}

func TestServiceUpdateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(context.Background(), NewMemoryStore(), testDefaults)
	_, err := svc.Update(context.Background(), Prompts{Supervisor: "x", FinalOutput: "  "})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Update() error = %v, want ErrValidation", err)
	}
	if svc.Current() != testDefaults {
		t.Fatal("invalid update changed current prompts")
	}
}

func TestServiceUpdateSaveFailureKeepsCurrent(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(context.Background(), failingStore{loadErr: ErrNotFound, saveErr: errors.New("down")}, testDefaults)
	if _, err := svc.Update(context.Background(), Prompts{Supervisor: "a", FinalOutput: "b"}); err == nil {
		t.Fatal("expected save error")
	}
	if svc.Current() != testDefaults {
		t.Fatal("failed update changed current prompts")
	}
}

func TestServiceConcurrentReadsSeeWholeSnapshots(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(context.Background(), NewMemoryStore(), Prompts{Supervisor: "a0", FinalOutput: "b0"})
	pairs := map[string]string{"a0": "b0", "a1": "b1", "a2": "b2"}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			n := []string{"1", "2"}[i%2]
			_, _ = svc.Update(context.Background(), Prompts{Supervisor: "a" + n, FinalOutput: "b" + n})
		}
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				p := svc.Current()
				if pairs[p.Supervisor] != p.FinalOutput {
					t.Errorf("torn snapshot: %+v", p)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPostgresRowMapping(t *testing.T) {
	t.Parallel()

	p := Prompts{Supervisor: "s", FinalOutput: "f"}
	rows := rowsFromPrompts(p, testNow)
	if len(rows) != 2 {
		t.Fatalf("rowsFromPrompts() len = %d", len(rows))
	}
	if got := promptsFromRows(rows); got != p {
		t.Fatalf("promptsFromRows() = %+v, want %+v", got, p)
	}
}
