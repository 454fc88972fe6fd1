// Package progress wraps sequences with a single-line textual progress display.
//
// The status line is rewritten in place with a carriage return after every
// item and shows the position, the total when it is known, the elapsed time,
// the processing rate and a fill bar.
//
// # Usage
//
//	for i := range progress.Range(10, progress.Options{}) {
//	    time.Sleep(500 * time.Millisecond)
//	}
//	fmt.Println()
//
// Fallible sources use WrapErr; the source error is handed back unchanged:
//
//	for row, err := range progress.WrapErr(rows, n, progress.Options{}) {
//	    if err != nil {
//	        return err
//	    }
//	    ...
//	}
//
// # Output Format
//
//	 40%|████████████████                        | 4/10 [00:02<00:03, 2 it/s]
//	⠹ 4it [00:02, 2 it/s]
package progress
