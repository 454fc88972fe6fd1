// Package display draws pixel arrays in the terminal.
//
// Pictures are drawn with upper half-block cells so that every text row
// carries two pixel rows. Three-channel arrays keep their colours; single
// planes are normalised to their value range and coloured with a Colormap.
//
//	err := display.Display(ctx, grey, "Grey", display.Options{
//	    Colormap: display.Gray,
//	    Mode:     display.ModeText,
//	})
package display
