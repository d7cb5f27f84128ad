// ABOUTME: Spoken narration package
// ABOUTME: Turns text into playable speech buffers and downloadable WAV files
// Package narration generates and plays spoken summaries.
//
// A Narrator asks a speech provider for base64 PCM, decodes it into a
// buffer for playback and wraps the same bytes in a WAV file for download.
// Only one narration plays at a time; starting another stops the previous.
//
// A provider that returns no audio is not an error: Generate and Narrate
// return a nil Result and the caller simply skips narration.
//
// Example:
//
//	n := narration.New(narration.Config{Provider: gemini, Gate: gate})
//	res, err := n.Narrate(ctx, interpretation)
//	if res != nil {
//		err = res.SaveWAV(narration.DownloadName("reading", time.Now()))
//	}
package narration
