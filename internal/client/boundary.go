package client

// Renderer receives the interpolated view once per frame and draws it. It
// owns no game logic; highlighting the local player is its only use of
// selfID (zero until the init message arrives).
type Renderer interface {
	Render(state RenderState, selfID int64)
}

// InputSource reports the currently held direction, or nil for none,
// sampled once per frame. When opposing keys are held the source's own
// enumeration order decides; combined directions are unsupported.
type InputSource interface {
	Direction() *string
}
