// Package parser reads flashcards from markdown decks.
//
// A card starts with a "Q:" line and its answer with an "A:" line. Both may
// continue over several lines. An optional "C:" block adds context, which is
// appended to the back of the card. A line of "---" ends the current card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/cardb/internal/domain"
)

const (
	frontPrefix   = "Q:"
	backPrefix    = "A:"
	contextPrefix = "C:"
	separator     = "---"
)

type state int

const (
	seeking state = iota
	readingFront
	readingBack
	readingContext
)

// ParseFile reads a deck file from the given path and extracts all pairs.
func ParseFile(path string) ([]domain.Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all pairs. Blocks without a
// question are dropped; pairs are returned untrimmed apart from the single
// space after a prefix.
func Parse(r io.Reader) ([]domain.Pair, error) {
	scanner := bufio.NewScanner(r)

	var (
		pairs        []domain.Pair
		front, back  string
		context      string
		block        []string
		currentState = seeking
	)

	flushBlock := func() {
		if len(block) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(block, "\n"), "\n")
		switch currentState {
		case readingFront:
			front = content
		case readingBack:
			back = content
		case readingContext:
			context = content
		}
		block = nil
	}

	finishCard := func() {
		flushBlock()
		if front != "" {
			if context != "" {
				back = back + "\n\n" + context
			}
			pairs = append(pairs, domain.Pair{Front: front, Back: back})
		}
		front, back, context = "", "", ""
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		if line == separator {
			finishCard()
			continue
		}

		next, prefix := classify(line)
		if next == seeking {
			if currentState != seeking {
				block = append(block, line)
			}
			continue
		}

		if next == readingFront && currentState != seeking {
			finishCard() // A new question always starts a new card
		} else {
			flushBlock()
		}
		currentState = next
		block = append(block, strings.TrimPrefix(line[len(prefix):], " "))
	}

	finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pairs, nil
}

func classify(line string) (state, string) {
	switch {
	case strings.HasPrefix(line, frontPrefix):
		return readingFront, frontPrefix
	case strings.HasPrefix(line, backPrefix):
		return readingBack, backPrefix
	case strings.HasPrefix(line, contextPrefix):
		return readingContext, contextPrefix
	}
	return seeking, ""
}
