package audio

import "github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"

// formatRequest is the negotiable part of a builder's configuration.
// The sample rate is always concrete by build time; a zero channel
// count and an unset encoding leave that dimension to the device.
type formatRequest struct {
	sampleRate  int
	channels    int
	encoding    audioapi.Encoding
	hasEncoding bool
}

func (req formatRequest) channelsOK(channels int) bool {
	return req.channels == 0 || req.channels == channels
}

func (req formatRequest) encodingOK(encoding audioapi.Encoding) bool {
	return !req.hasEncoding || req.encoding == encoding
}

// negotiateFormat selects the hardware format a stream opens with.
//
// The device default wins whenever it satisfies the requested channels
// and encoding: as-is when the sample rate matches, reshaped to the
// requested rate when a supported range with the same channels and
// encoding contains that rate. Otherwise the supported list is scanned
// in device order, first for an entry whose rate range contains the
// requested rate, then for any channels/encoding match with the rate
// clamped to the nearer bound. Earlier list entries win ties, so the
// choice is deterministic for a given device.
//
// Only a channels or encoding mismatch across the entire list fails; a
// rate the device cannot honor degrades to the closest supported rate,
// or to the default format's own rate.
func negotiateFormat(dev audioapi.Device, req formatRequest) (audioapi.Format, error) {
	defaultOK := dev.Default != nil &&
		req.channelsOK(dev.Default.Channels) &&
		req.encodingOK(dev.Default.Encoding)

	if defaultOK {
		if dev.Default.SampleRate == req.sampleRate {
			return *dev.Default, nil
		}
		for _, r := range dev.Formats {
			if r.Channels == dev.Default.Channels && r.Encoding == dev.Default.Encoding && r.ContainsRate(req.sampleRate) {
				return audioapi.Format{
					SampleRate: req.sampleRate,
					Channels:   dev.Default.Channels,
					Encoding:   dev.Default.Encoding,
				}, nil
			}
		}
	}

	for _, r := range dev.Formats {
		if req.channelsOK(r.Channels) && req.encodingOK(r.Encoding) && r.ContainsRate(req.sampleRate) {
			return r.Format(req.sampleRate), nil
		}
	}
	for _, r := range dev.Formats {
		if req.channelsOK(r.Channels) && req.encodingOK(r.Encoding) {
			return r.Format(req.sampleRate), nil
		}
	}
	if defaultOK {
		return *dev.Default, nil
	}

	return audioapi.Format{}, ErrFormatUnsupported
}
