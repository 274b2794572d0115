package metrics

// FrameAction records a frame interaction and the view it produced.
func FrameAction(action, view string) {
	if !enabled {
		return
	}
	frameActionsTotal.WithLabelValues(action, view).Inc()
}

// MintRequest records a mint request outcome for a chain.
func MintRequest(chain, result string) {
	if !enabled {
		return
	}
	mintRequestsTotal.WithLabelValues(chain, result).Inc()
}

// RecipientResolution records a recipient classification outcome.
func RecipientResolution(kind, result string) {
	if !enabled {
		return
	}
	recipientResolutionsTotal.WithLabelValues(kind, result).Inc()
}
