// Package ioformat implements the text record format that feeds a
// TaskGraph into the scheduling core: a leading V/I header pair
// followed by T (task) and S (transfer) records, per the external
// input contract the core consumes from its parser collaborator.
package ioformat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/IgorBoyarshin/EnergyAwarePlanning/internal/graph"
)

// ErrParse wraps every malformed-input failure; callers should treat
// any error from Parse as fatal to the run per the external contract.
var ErrParse = errors.New("ioformat: parse error")

// Parse reads a V/I/T/S record stream and builds a TaskGraph. Task ids
// and transfer endpoints are validated against the declared indexing
// basis and the running task counter, then normalized to the graph's
// internal 0-based indexing.
func Parse(r io.Reader) (*graph.TaskGraph, error) {
	scanner := bufio.NewScanner(r)

	var p int
	var indexingFromZero bool
	var g *graph.TaskGraph
	haveHeader := 0 // 0: need V, 1: need I, 2: ready for T/S
	nextID := 0

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "V":
			if haveHeader != 0 {
				return nil, fail(lineNo, "V record must be first")
			}
			if len(fields) != 2 {
				return nil, fail(lineNo, "V record needs exactly one operand")
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n <= 0 {
				return nil, fail(lineNo, "V operand must be a positive integer")
			}
			p = n
			haveHeader = 1

		case "I":
			if haveHeader != 1 {
				return nil, fail(lineNo, "I record must immediately follow V")
			}
			if len(fields) != 2 || (fields[1] != "0" && fields[1] != "1") {
				return nil, fail(lineNo, "I operand must be 0 or 1")
			}
			indexingFromZero = fields[1] == "0"
			g = graph.New(indexingFromZero)
			if !indexingFromZero {
				nextID = 1
			}
			haveHeader = 2

		case "T":
			if haveHeader != 2 {
				return nil, fail(lineNo, "T record before V/I header")
			}
			idx, err := parseTask(fields, p, nextID)
			if err != nil {
				return nil, fail(lineNo, err.Error())
			}
			g.AddTask(idx)
			nextID++

		case "S":
			if haveHeader != 2 {
				return nil, fail(lineNo, "S record before V/I header")
			}
			src, dst, volume, err := parseTransfer(fields)
			if err != nil {
				return nil, fail(lineNo, err.Error())
			}
			if !indexingFromZero {
				src--
				dst--
			}
			if err := g.AddTransfer(src, dst, volume); err != nil {
				return nil, fail(lineNo, err.Error())
			}

		default:
			return nil, fail(lineNo, fmt.Sprintf("unrecognized record type %q", fields[0]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if haveHeader != 2 {
		return nil, fail(lineNo, "missing V/I header")
	}

	return g, nil
}

// parseTask parses a T record's operands into operating points. fields[0]
// is "T"; fields[1] is "<id><sep>"; the next p fields are weights; the
// following field is a standalone separator; the final p fields are
// energies.
func parseTask(fields []string, p, wantID int) ([]graph.OperatingPoint, error) {
	if len(fields) != 3+2*p {
		return nil, fmt.Errorf("T record expects %d fields for P=%d, got %d", 3+2*p, p, len(fields))
	}

	id, err := scalarWithSep(fields[1])
	if err != nil {
		return nil, fmt.Errorf("T id: %w", err)
	}
	if id != wantID {
		return nil, fmt.Errorf("T id %d does not match running counter %d", id, wantID)
	}

	weights := make([]int, p)
	for i := 0; i < p; i++ {
		w, err := strconv.Atoi(fields[2+i])
		if err != nil {
			return nil, fmt.Errorf("T weight %d: %w", i, err)
		}
		weights[i] = w
	}

	if err := standaloneSep(fields[2+p]); err != nil {
		return nil, fmt.Errorf("T separator: %w", err)
	}

	energies := make([]int, p)
	for i := 0; i < p; i++ {
		e, err := strconv.Atoi(fields[3+p+i])
		if err != nil {
			return nil, fmt.Errorf("T energy %d: %w", i, err)
		}
		energies[i] = e
	}

	points := make([]graph.OperatingPoint, p)
	for i := range points {
		points[i] = graph.OperatingPoint{Weight: weights[i], Energy: energies[i]}
	}
	return points, nil
}

// parseTransfer parses an S record: "S" "<from><sep>" "<to><sep>" "<volume>".
func parseTransfer(fields []string) (src, dst, volume int, err error) {
	if len(fields) != 4 {
		return 0, 0, 0, fmt.Errorf("S record expects 4 fields, got %d", len(fields))
	}

	src, err = scalarWithSep(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("S from: %w", err)
	}
	dst, err = scalarWithSep(fields[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("S to: %w", err)
	}
	volume, err = strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("S volume: %w", err)
	}
	return src, dst, volume, nil
}

// scalarWithSep splits a token of the form "<digits><sep>" where sep is
// exactly one trailing non-alphanumeric rune.
func scalarWithSep(tok string) (int, error) {
	if len(tok) < 2 {
		return 0, fmt.Errorf("token %q too short for <id><sep>", tok)
	}
	runes := []rune(tok)
	sep := runes[len(runes)-1]
	if unicode.IsLetter(sep) || unicode.IsDigit(sep) {
		return 0, fmt.Errorf("token %q has no non-alphanumeric separator", tok)
	}
	n, err := strconv.Atoi(string(runes[:len(runes)-1]))
	if err != nil {
		return 0, fmt.Errorf("token %q has non-numeric id: %w", tok, err)
	}
	return n, nil
}

// standaloneSep validates a token that is only the separator character.
func standaloneSep(tok string) error {
	runes := []rune(tok)
	if len(runes) != 1 {
		return fmt.Errorf("expected a single-character separator, got %q", tok)
	}
	if unicode.IsLetter(runes[0]) || unicode.IsDigit(runes[0]) {
		return fmt.Errorf("separator %q must be non-alphanumeric", tok)
	}
	return nil
}

func fail(lineNo int, msg string) error {
	return fmt.Errorf("%w: line %d: %s", ErrParse, lineNo, msg)
}
