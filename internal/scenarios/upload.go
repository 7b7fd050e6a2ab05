package scenarios

import (
	"context"
	"fmt"
)

const uploadStepPercent = 10

// Upload reports a simulated upload in steps of 10% and completes it. The
// notification is dismissed when ctx ends first.
func Upload(ctx context.Context, n Notifier, timing Timing) error {
	p := n.ShowProgress("Uploading file...", n.Defaults().Duration, 0)

	for pct := uploadStepPercent; pct <= 100; pct += uploadStepPercent {
		if err := sleep(ctx, timing.UploadStep); err != nil {
			n.Dismiss(p.ID())
			return err
		}
		p.Report(float64(pct), fmt.Sprintf("Uploading file... %d%%", pct))
	}

	p.Complete("Upload completed!")
	return nil
}
