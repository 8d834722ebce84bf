package models

import (
	"fmt"
)

var (
	ErrImageNotFound     = fmt.Errorf("image not found")
	ErrInvalidDimensions = fmt.Errorf("image reports invalid dimensions")
	ErrNoSuchImage       = fmt.Errorf("no image at that catalog position")
)

/*
ImageDescriptor is one catalog entry before it has been measured. Source is
a path relative to the gallery page. An empty Date means the painting has
no date.
*/
type ImageDescriptor struct {
	Source  string
	Caption string
	Date    string
}

func (d ImageDescriptor) HasDate() bool {
	return d.Date != ""
}

/*
LoadedImage is a descriptor plus the natural pixel dimensions of the
image it points at.
*/
type LoadedImage struct {
	ImageDescriptor

	Width  int
	Height int
}

func (i LoadedImage) AspectRatio() float64 {
	return float64(i.Width) / float64(i.Height)
}
