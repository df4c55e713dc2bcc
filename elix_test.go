package elix_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/elix-dev/elix"
)

func TestNewRendersOnTurnEnd(t *testing.T) {
	l := elix.NewLoop()
	defer l.Close()
	sched := elix.NewScheduler(l)

	var el *elix.Element
	var err error
	l.Turn(func() {
		el, err = elix.New("fruit-list", sched, elix.ListBox()...)
		if err != nil {
			return
		}
		err = el.SetState(elix.Patch{"content": elix.TextItems("Apple", "Banana")})
		el.Connect()
		if el.HTML() != "<fruit-list></fruit-list>" {
			t.Errorf("rendered before the turn ended: %s", el.HTML())
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(el.HTML(), `<div id="option-1" aria-selected="false" role="option">Banana</div>`) {
		t.Errorf("HTML() = %s", el.HTML())
	}
}

func TestNilSchedulerRendersOnDefaultLoopTurn(t *testing.T) {
	var el *elix.Element
	var err error
	elix.DefaultLoop().Turn(func() {
		el, err = elix.New("default-disclosure", nil, elix.Disclosure("More")...)
		if err != nil {
			return
		}
		el.Connect()
		err = el.SetState(elix.Patch{"opened": true})
	})
	if err != nil {
		t.Fatal(err)
	}
	if el.HTML() == "<default-disclosure></default-disclosure>" {
		t.Fatal("element did not render when the default loop's turn ended")
	}
	if !strings.Contains(el.HTML(), `aria-expanded="true"`) {
		t.Errorf("HTML() = %s", el.HTML())
	}
}

func TestRunRendersPostedWork(t *testing.T) {
	l := elix.NewLoop()
	defer l.Close()
	sched := elix.NewScheduler(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	html := make(chan string, 1)
	post := func(fn func()) {
		t.Helper()
		if err := l.Post(fn); err != nil {
			t.Fatal(err)
		}
	}

	var el *elix.Element
	post(func() {
		var err error
		el, err = elix.New("fruit-list", sched, elix.ListBox()...)
		if err != nil {
			t.Error(err)
			return
		}
		el.Connect()
		if err := el.SetState(elix.Patch{"content": elix.TextItems("Apple", "Banana")}); err != nil {
			t.Error(err)
		}
	})
	post(func() {
		if err := el.SetState(elix.Patch{"selectedIndex": 1}); err != nil {
			t.Error(err)
		}
	})
	post(func() { html <- el.HTML() })

	select {
	case got := <-html:
		if !strings.Contains(got, `<div id="option-1" class="selected" aria-selected="true" role="option">Banana</div>`) {
			t.Errorf("HTML() = %s", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("posted work did not run")
	}
}

func TestComposeRejectsDuplicates(t *testing.T) {
	b := &elix.Func{ID: "same"}
	_, err := elix.Compose(b, &elix.Func{ID: "same"})
	if !errors.Is(err, elix.ErrInvalidChain) {
		t.Fatalf("Compose() error = %v, want ErrInvalidChain", err)
	}
}

func TestStoreNotSettled(t *testing.T) {
	_, err := elix.NewStore(elix.Patch{"n": 0}, []elix.Handler{{
		Name:  "grow",
		Watch: []string{"n"},
		Fn: func(s elix.State) elix.Patch {
			return elix.Patch{"n": s.Get("n").(int) + 1}
		},
	}}, elix.StoreOptions{MaxPasses: 5})
	if !errors.Is(err, elix.ErrNotSettled) {
		t.Fatalf("NewStore() error = %v, want ErrNotSettled", err)
	}
}

func TestMerge(t *testing.T) {
	got := elix.Merge(
		elix.Props{Classes: map[string]bool{"a": true}},
		elix.Props{Classes: map[string]bool{"b": true}},
	)
	if !got.Classes["a"] || !got.Classes["b"] {
		t.Errorf("Merge() classes = %v", got.Classes)
	}
}
