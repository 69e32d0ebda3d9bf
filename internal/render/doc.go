// Package render turns an optimizer.Result into displayable output. The optimizer never formats
// currency itself; amounts are rounded to two decimals here and nowhere else.
package render
