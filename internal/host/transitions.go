package host

import (
	"context"
	"time"

	"github.com/colonyops/toasty/internal/core/notify"
)

const (
	// hiddenOffset is the vertical offset of a visual before it enters and
	// after it leaves.
	hiddenOffset = 40.0
	// shrunkScale is the scale a visual grows from and shrinks to.
	shrunkScale = 0.8
)

const (
	fadeInDuration  = 250 * time.Millisecond
	scaleInDuration = 250 * time.Millisecond
	slideInDuration = 300 * time.Millisecond

	fadeOutDuration  = 200 * time.Millisecond
	scaleOutDuration = 200 * time.Millisecond
	slideOutDuration = 250 * time.Millisecond
)

// initialPose places a freshly created visual where its entry transition
// starts from.
func initialPose(v Visual, t notify.Transition) {
	v.SetOpacity(0)
	v.SetOffsetY(hiddenOffset)
	v.SetScale(1)

	if t == notify.TransitionScale {
		v.SetOffsetY(0)
		v.SetScale(shrunkScale)
	}
}

// playEntry animates v into view. Cancellation stops the wait, not the
// animation.
func playEntry(ctx context.Context, v Visual, t notify.Transition) {
	switch t {
	case notify.TransitionFade:
		v.SetOffsetY(0)
		await(ctx, v.Fade(1, fadeInDuration))
	case notify.TransitionScale:
		await(ctx, v.Scale(1, scaleInDuration), v.Fade(1, scaleInDuration))
	case notify.TransitionSlideUp:
		v.SetOpacity(1)
		await(ctx, v.TranslateY(0, slideInDuration))
	default:
		await(ctx, v.TranslateY(0, slideInDuration), v.Fade(1, slideInDuration))
	}
}

// playExit closes v and animates it out of view.
func playExit(ctx context.Context, v Visual, t notify.Transition) {
	v.SetOpen(false)

	switch t {
	case notify.TransitionFade:
		await(ctx, v.Fade(0, fadeOutDuration))
	case notify.TransitionScale:
		if !await(ctx, v.Scale(shrunkScale, scaleOutDuration)) {
			return
		}
		await(ctx, v.Fade(0, fadeOutDuration))
	case notify.TransitionSlideUp:
		if await(ctx, v.TranslateY(hiddenOffset, slideOutDuration)) {
			v.SetOpacity(0)
		}
	default:
		await(ctx, v.TranslateY(hiddenOffset, slideOutDuration), v.Fade(0, slideOutDuration))
	}
}

// await blocks until every channel is closed or ctx is done. It reports
// whether all animations finished.
func await(ctx context.Context, chs ...<-chan struct{}) bool {
	for _, ch := range chs {
		select {
		case <-ch:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
