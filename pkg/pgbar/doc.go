/*
Package pgbar renders a live-updating terminal progress bar driven by a
caller that repeatedly reports completed units of work.

The bar is redrawn at a bounded refresh rate without blocking the
caller's hot loop. Two render strategies are available behind the same
contract: ModeThreaded runs a background goroutine that redraws on a
fixed cadence independent of caller pace, and ModeCooperative redraws
inline during Update calls, throttled by elapsed time.

Basic usage:

	bar := pgbar.New(pgbar.Config{Total: 100}, log)
	defer bar.Close()

	for i := 0; i < 100; i++ {
	    work()
	    if err := bar.Update(); err != nil {
	        return err
	    }
	}

The display is assembled from five independently toggleable fields: the
glyph track, a percentage, a done/total counter, a smoothed update rate
and an elapsed/remaining countdown:

	[------------                  ] [  40.00% |  40/100 | 12.51 Hz  |  3s < 4s  ]

When the output is not an interactive terminal the bar writes nothing,
but the counter and state machine still function, so the same code runs
safely with redirected output.

A Bar is not safe for concurrent Update calls; serializing updates is
the caller's responsibility.
*/
package pgbar
