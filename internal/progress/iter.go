package progress

import "iter"

// Wrap returns a sequence that yields the elements of seq unchanged and in
// order while rendering progress for total items (Unknown if not known).
//
// The first status line (0/total) is rendered before the first element is
// requested from seq, and one more after the caller's loop body returns for
// each element, so a sequence of N elements produces N+1 renders. Breaking
// out of the loop stops the iteration without a final render.
//
// Each run of the returned sequence tracks its own state.
func Wrap[T any](seq iter.Seq[T], total int, opts Options) iter.Seq[T] {
	return func(yield func(T) bool) {
		bar := NewBar(total, opts)
		bar.Start()
		for v := range seq {
			if !yield(v) {
				return
			}
			bar.Add(1)
		}
		bar.Finish()
	}
}

// WrapErr is Wrap for fallible sources. When seq yields a non-nil error the
// status line is ended and flushed, then the error is passed to the caller
// exactly as received and the iteration stops.
func WrapErr[T any](seq iter.Seq2[T, error], total int, opts Options) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		bar := NewBar(total, opts)
		bar.Start()
		for v, err := range seq {
			if err != nil {
				bar.Abort()
				yield(v, err)
				return
			}
			if !yield(v, nil) {
				return
			}
			bar.Add(1)
		}
		bar.Finish()
	}
}

// WrapSlice wraps the elements of items with a known total.
func WrapSlice[T any](items []T, opts Options) iter.Seq[T] {
	return Wrap(func(yield func(T) bool) {
		for _, v := range items {
			if !yield(v) {
				return
			}
		}
	}, len(items), opts)
}

// Range wraps the integers 0..n-1.
func Range(n int, opts Options) iter.Seq[int] {
	if n < 0 {
		n = 0
	}
	return Wrap(func(yield func(int) bool) {
		for i := range n {
			if !yield(i) {
				return
			}
		}
	}, n, opts)
}
