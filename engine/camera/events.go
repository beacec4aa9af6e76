package camera

import "github.com/1siamBot/boardcam/engine/observable"

// Events groups the camera notification channels. Pan, Zoom and Rotate
// receive changes of their own axis; All receives every change.
type Events struct {
	Pan    *observable.Observable[Change]
	Zoom   *observable.Observable[Change]
	Rotate *observable.Observable[Change]
	All    *observable.Observable[Change]
}

func newEvents(opts ...observable.Option) *Events {
	named := func(name string) []observable.Option {
		return append(append([]observable.Option(nil), opts...), observable.WithName(name))
	}
	return &Events{
		Pan:    observable.New[Change](named("pan")...),
		Zoom:   observable.New[Change](named("zoom")...),
		Rotate: observable.New[Change](named("rotate")...),
		All:    observable.New[Change](named("all")...),
	}
}

func (e *Events) channel(axis Axis) *observable.Observable[Change] {
	switch axis {
	case AxisPan:
		return e.Pan
	case AxisZoom:
		return e.Zoom
	case AxisRotate:
		return e.Rotate
	}
	return nil
}

func (e *Events) notify(c Change) {
	if ch := e.channel(c.Axis); ch != nil {
		ch.Notify(c)
	}
	e.All.Notify(c)
}
