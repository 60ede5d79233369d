package chatpipe

// Delimiters bracketing a generated response in the target buffer.
const (
	openDelimiter  = "### Response\n\n"
	closeDelimiter = "\n\n### End\n"

	// paragraphBreak separates the response from preceding buffer text.
	paragraphBreak = "\n\n"
)

// renderChunk is the default chunk handler. It incrementally inserts
// sanitized text into the target buffer at the tracking marker, applying
// the exchange's transform first when one is configured.
func (p *Pipeline) renderChunk(text string, ex *Exchange) {
	if ex.marker == nil {
		p.openResponse(ex)
	}

	if ex.transform != nil {
		text = ex.transform(text)
	}

	if text == "" {
		return
	}

	at := ex.marker.Pos()

	if err := ex.buffer.Insert(at, text); err != nil {
		p.log.Warn("Chunk insertion failed", "token", ex.token, "error", err)

		return
	}

	// The marker stays at the end of the text inserted so far, so each new
	// chunk lands after all previously rendered chunks.
	ex.marker.SetPos(at + len(text))
}

// openResponse prepares the buffer on the first chunk of a request: status
// indicator to working, a paragraph break unless inserting at the start of
// the buffer or editing in place, the opening delimiter, and the tracking
// marker all following chunks append at.
func (p *Pipeline) openResponse(ex *Exchange) {
	ex.buffer.SetStatus(StatusWorking, "")

	at := min(ex.position, ex.buffer.Size())
	if at < 0 {
		at = 0
	}

	lead := ""
	if at > 0 && !ex.inPlace {
		lead = paragraphBreak
	}

	if err := ex.buffer.Insert(at, lead+openDelimiter); err != nil {
		p.log.Warn("Response opening failed", "token", ex.token, "error", err)
	} else {
		at += len(lead) + len(openDelimiter)
	}

	ex.bodyStart = at
	ex.marker = ex.buffer.NewMarker(at)
}
