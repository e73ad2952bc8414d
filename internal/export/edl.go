package export

import (
	"fmt"
	"math"
	"strings"
)

// GenerateEDL renders a CMX3600 cut list. Each playblast covers the whole
// batch frame range, so every event's source starts at zero and the record
// track is the clips laid back to back in selection order.
func GenerateEDL(clips []ResolvedClip, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 24
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	if isDropFrame {
		b.WriteString("FCM: DROP FRAME\n")
	} else {
		b.WriteString("FCM: NON-DROP FRAME\n")
	}
	b.WriteString("\n")

	recordOffsetMs := 0
	for i, clip := range clips {
		srcIn := msToTimecode(0, fps)
		srcOut := msToTimecode(clip.DurationMs, fps)
		recIn := msToTimecode(recordOffsetMs, fps)
		recOut := msToTimecode(recordOffsetMs+clip.DurationMs, fps)

		fmt.Fprintf(&b, "%03d  %-8s %-5s C        %s %s %s %s\n", i+1, "AX", "V", srcIn, srcOut, recIn, recOut)
		fmt.Fprintf(&b, "* FROM CLIP NAME:  %s\n", clip.ClipName)
		fmt.Fprintf(&b, "* MEDIA PATH:  %s\n", clip.MediaPath)

		recordOffsetMs += clip.DurationMs
	}

	b.WriteString("\n")
	return b.String()
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}

// RangeDurationMs converts an inclusive frame range at the given rate to
// milliseconds. A degenerate or unreported range yields zero.
func RangeDurationMs(frameStart, frameEnd, frameRate float64) int {
	if frameRate <= 0 || frameEnd < frameStart {
		return 0
	}
	frames := frameEnd - frameStart + 1
	return int(math.Round(frames / frameRate * 1000.0))
}
