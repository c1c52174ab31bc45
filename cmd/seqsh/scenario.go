package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattphillipsphd/safeseq"
	"github.com/tailscale/hujson"
)

// scenarioStep is one operation in a replayed scenario file. Only the
// fields relevant to Op need to be set.
type scenarioStep struct {
	Owner  string `json:"owner"`
	Op     string `json:"op"`
	Offset int    `json:"offset"`
	Value  byte   `json:"value"`
}

// scenarioFile is the top-level shape of a scenario document. Comments
// and trailing commas are allowed: it is decoded with
// [hujson.Standardize] before JSON unmarshaling, exactly as the teacher
// repo's root config.go decodes ".tk.json".
type scenarioFile struct {
	Size  int            `json:"size"`
	Steps []scenarioStep `json:"steps"`
}

// loadScenario reads and decodes a hujson scenario file from path.
func loadScenario(path string) (scenarioFile, error) {
	var sf scenarioFile

	raw, err := os.ReadFile(path)
	if err != nil {
		return sf, fmt.Errorf("reading scenario file: %w", err)
	}

	standardized, err := hujson.Standardize(raw)
	if err != nil {
		return sf, fmt.Errorf("parsing scenario file: %w", err)
	}

	if err := json.Unmarshal(standardized, &sf); err != nil {
		return sf, fmt.Errorf("decoding scenario file: %w", err)
	}

	if sf.Size <= 0 {
		sf.Size = 20
	}

	return sf, nil
}

// runScenario replays every step of sf sequentially against a fresh
// SafeSequence[byte], printing each step's outcome. Replay is entirely
// single-goroutine and deterministic; it exists to give scenario files a
// repeatable way to exercise the library, not to exercise concurrency
// (use the REPL's "spawn" command for that).
func runScenario(sf scenarioFile) error {
	seq, err := safeseq.New[byte](sf.Size, safeseq.Options{})
	if err != nil {
		return err
	}

	owners := map[string]*safeseq.Owner{}
	handles := map[string]*safeseq.Handle[byte]{}

	ownerFor := func(name string) *safeseq.Owner {
		o, ok := owners[name]
		if !ok {
			o = safeseq.NewOwner()
			owners[name] = o
		}
		return o
	}

	for i, step := range sf.Steps {
		owner := ownerFor(step.Owner)

		switch step.Op {
		case "reader_at":
			h, err := seq.ReaderAt(owner, step.Offset)
			if err != nil {
				return fmt.Errorf("step %d (%s reader_at): %w", i, step.Owner, err)
			}
			handles[step.Owner] = h
			fmt.Printf("step %d: %s acquired reader at %d\n", i, step.Owner, step.Offset)

		case "writer_at":
			h, err := seq.WriterAt(owner, step.Offset)
			if err != nil {
				return fmt.Errorf("step %d (%s writer_at): %w", i, step.Owner, err)
			}
			handles[step.Owner] = h
			fmt.Printf("step %d: %s acquired writer at %d\n", i, step.Owner, step.Offset)

		case "set":
			h := handles[step.Owner]
			if h == nil {
				return fmt.Errorf("step %d: %s has no open handle", i, step.Owner)
			}
			if err := h.Set(step.Value); err != nil {
				return fmt.Errorf("step %d (%s set): %w", i, step.Owner, err)
			}
			fmt.Printf("step %d: %s set %q\n", i, step.Owner, step.Value)

		case "get":
			h := handles[step.Owner]
			if h == nil {
				return fmt.Errorf("step %d: %s has no open handle", i, step.Owner)
			}
			v, err := h.Get()
			if err != nil {
				return fmt.Errorf("step %d (%s get): %w", i, step.Owner, err)
			}
			fmt.Printf("step %d: %s got %q at %d\n", i, step.Owner, v, h.Position())

		case "advance":
			h := handles[step.Owner]
			if h == nil {
				return fmt.Errorf("step %d: %s has no open handle", i, step.Owner)
			}
			if err := h.Advance(); err != nil {
				return fmt.Errorf("step %d (%s advance): %w", i, step.Owner, err)
			}
			fmt.Printf("step %d: %s advanced to %d\n", i, step.Owner, h.Position())

		case "close":
			h := handles[step.Owner]
			if h == nil {
				return fmt.Errorf("step %d: %s has no open handle", i, step.Owner)
			}
			if err := h.Close(); err != nil {
				return fmt.Errorf("step %d (%s close): %w", i, step.Owner, err)
			}
			delete(handles, step.Owner)
			fmt.Printf("step %d: %s closed\n", i, step.Owner)

		default:
			return fmt.Errorf("step %d: unknown op %q", i, step.Op)
		}
	}

	fmt.Println("scenario complete, final buffer:")
	for i := 0; i < seq.Size(); i++ {
		v, _ := seq.Read(i)
		fmt.Printf("%q", v)
	}
	fmt.Println()
	return nil
}
