package chunker

import (
	"regexp"
	"strings"

	"github.com/smahat/docuchat/internal/adapter/utils"
	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/commonModels"
)

// Options controls how a document body is split into DocumentChunks.
type Options struct {
	ChunkSize         int //characters per chunk
	Overlap           int //characters of continuity carried across chunks, approximated as Overlap/10 words
	PreserveSentences bool
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:         config.ChunkSize,
		Overlap:           config.ChunkOverlap,
		PreserveSentences: config.PreserveSentences,
	}
}

var sentenceSplitter = regexp.MustCompile(`[^.!?]+[.!?]+\s*|[^.!?]+$`)

// Chunk splits text into overlapping, sentence-respecting segments with
// provenance metadata attached. Pure function: empty or whitespace-only
// input yields an empty list, never an error.
func Chunk(text string, doc commonModels.Document, opts Options) []commonModels.DocumentChunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = config.ChunkSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	if !opts.PreserveSentences {
		return fixedWidthChunks(text, doc, opts)
	}
	return sentenceChunks(text, doc, opts)
}

func sentenceChunks(text string, doc commonModels.Document, opts Options) []commonModels.DocumentChunk {
	bounds := sentenceSplitter.FindAllStringIndex(text, -1)
	if len(bounds) == 0 {
		bounds = [][]int{{0, len(text)}}
	}

	var chunks []commonModels.DocumentChunk
	overlapWords := opts.Overlap / 10
	tail := ""
	i := 0
	for i < len(bounds) {
		start := bounds[i][0]
		end := bounds[i][1]

		// Accumulate sentences until the next one would exceed the limit.
		// A single oversized sentence is still emitted on its own.
		j := i + 1
		for j < len(bounds) && len(tail)+(bounds[j][1]-start) <= opts.ChunkSize {
			end = bounds[j][1]
			j++
		}
		if j == i+1 {
			end = bounds[i][1]
		}

		body := text[start:end]
		chunkText := strings.TrimSpace(tail + body)

		chunks = append(chunks, commonModels.DocumentChunk{
			Id:            utils.GetNewUUID(),
			DocumentId:    doc.Id,
			Text:          chunkText,
			Ordinal:       len(chunks),
			CharStart:     start,
			CharLen:       end - start,
			ContextBefore: contextBefore(text, start),
			ContextAfter:  contextAfter(text, end),
			Doc:           doc,
		})

		tail = trailingWords(chunkText, overlapWords)
		if tail != "" {
			tail += " "
		}
		i = j
	}
	return chunks
}

func fixedWidthChunks(text string, doc commonModels.Document, opts Options) []commonModels.DocumentChunk {
	step := opts.ChunkSize - opts.Overlap
	if step <= 0 {
		step = opts.ChunkSize
	}

	var chunks []commonModels.DocumentChunk
	for pos := 0; pos < len(text); pos += step {
		end := pos + opts.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, commonModels.DocumentChunk{
			Id:            utils.GetNewUUID(),
			DocumentId:    doc.Id,
			Text:          text[pos:end],
			Ordinal:       len(chunks),
			CharStart:     pos,
			CharLen:       end - pos,
			ContextBefore: contextBefore(text, pos),
			ContextAfter:  contextAfter(text, end),
			Doc:           doc,
		})
		if end == len(text) {
			break
		}
	}
	return chunks
}

func contextBefore(text string, start int) string {
	from := start - config.ChunkContextWindow
	if from < 0 {
		from = 0
	}
	return text[from:start]
}

func contextAfter(text string, end int) string {
	to := end + config.ChunkContextWindow
	if to > len(text) {
		to = len(text)
	}
	return text[end:to]
}

func trailingWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[len(words)-n:], " ")
}
