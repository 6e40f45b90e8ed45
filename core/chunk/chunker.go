// Package chunk splits Markdown text into word-bounded chunks for embedding.
// Blank-line separated blocks are packed together while they fit; a block
// larger than the chunk size is split on word boundaries. Words stand in
// for tokens and chunks do not overlap.
package chunk

import (
	"regexp"
	"strings"
)

const defaultChunkSize = 512

var blankLines = regexp.MustCompile(`\n[ \t]*\n`)

// Chunker splits text into chunks of at most ChunkSize words.
type Chunker struct {
	ChunkSize int // number of tokens (words) per chunk
}

// New creates a Chunker with the given chunk size.
// Defaults to 512 if chunkSize <= 0.
func New(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Chunker{ChunkSize: chunkSize}
}

// Chunk splits the input text. Words inside a chunk are joined by single
// spaces and blocks by a blank line.
func (c *Chunker) Chunk(text string) []string {
	var (
		chunks  []string
		current []string // blocks in the chunk being built
		words   int
	)
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current, words = nil, 0
		}
	}

	for _, block := range blankLines.Split(text, -1) {
		fields := strings.Fields(block)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > c.ChunkSize {
			flush()
			for i := 0; i < len(fields); i += c.ChunkSize {
				end := min(i+c.ChunkSize, len(fields))
				chunks = append(chunks, strings.Join(fields[i:end], " "))
			}
			continue
		}
		if words+len(fields) > c.ChunkSize {
			flush()
		}
		current = append(current, strings.Join(fields, " "))
		words += len(fields)
	}
	flush()
	return chunks
}
