// Package state holds an element's immutable state snapshots and settles
// updates to a fixed point.
//
// A Store owns the current State. Set merges a Patch into a candidate state,
// then runs every change Handler whose watched keys changed. Handlers run in
// order and each sees the patches returned by the ones before it. The keys a
// pass changed trigger the next pass, until a pass produces no change. The
// number of passes is capped so that handlers which keep undoing each other
// fail loudly instead of spinning.
//
//	store, err := state.NewStore(state.Patch{"a": 1, "b": 2}, []state.Handler{{
//	    Name:  "double",
//	    Watch: []string{"a"},
//	    Fn: func(s state.State) state.Patch {
//	        return state.Patch{"b": s.Get("a").(int) * 2}
//	    },
//	}}, state.Options{})
//
//	res, err := store.Set(state.Patch{"a": 5}) // b becomes 10, res.Passes == 1
package state
