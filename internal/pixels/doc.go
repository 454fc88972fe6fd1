// Package pixels holds image arrays and the colour-channel filters applied
// to them.
//
// An Array is the (height, width, channel) form of a decoded image. Filters
// take an (H, W, 3) array and return a new one; the input is never modified:
//
//	a, err := pixels.Load("landscape.jpg")
//	if err != nil {
//	    return err
//	}
//	grey, err := pixels.Grey(a) // shape (H, W, 1)
//
// Filters reject any other shape with a *ProcessingError wrapping ErrShape.
package pixels
