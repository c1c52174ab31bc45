// seqsh is an interactive shell for exercising a safeseq.SafeSequence.
//
// Usage:
//
//	seqsh [--size N] [--scenario file.hujson] [--snapshot-out file.json]
//
// REPL commands:
//
//	reader <owner> <offset>     Acquire a reader Handle (blocks if needed)
//	writer <owner> <offset>     Acquire a writer Handle (blocks if needed)
//	spawn <owner> <r|w> <off>   Acquire in the background; may block
//	status                      Show background spawn status
//	get <owner>                 Read the element at the owner's cursor
//	set <owner> <byte>          Write a byte at the owner's cursor (writer only)
//	advance <owner>             Move the owner's cursor forward one element
//	close <owner>               Close the owner's open Handle
//	read <i>                    Bypass the ledger, read index i directly
//	unsafe                      Demonstrate UnsafeCursor racing a writer
//	snapshot [path]             Print, or atomically dump, the ledger state
//	help                        Show this help
//	exit / quit / q             Exit
//
// This is an illustrative client of the safeseq library, not part of its
// specification; the REPL loop and flag handling follow the same shape
// as the example pack's own slotcache REPL demo.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/mattphillipsphd/safeseq"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	size := flag.Int("size", 20, "element count for the demo SafeSequence")
	scenarioPath := flag.String("scenario", "", "replay a hujson scenario file instead of starting the REPL")
	snapshotOut := flag.String("snapshot-out", "", "on exit, atomically dump the final ledger snapshot to this path")
	flag.Parse()

	if *scenarioPath != "" {
		sf, err := loadScenario(*scenarioPath)
		if err != nil {
			return err
		}
		return runScenario(sf)
	}

	seq, err := safeseq.New[byte](*size, safeseq.Options{})
	if err != nil {
		return fmt.Errorf("creating sequence: %w", err)
	}

	repl := &repl{
		seq:     seq,
		owners:  map[string]*safeseq.Owner{},
		handles: map[string]*safeseq.Handle[byte]{},
		spawns:  map[string]*spawnResult{},
	}

	err = repl.run()

	if *snapshotOut != "" {
		if dumpErr := safeseq.DumpSnapshot(*snapshotOut, seq.Snapshot(nil)); dumpErr != nil {
			fmt.Fprintf(os.Stderr, "warning: writing snapshot: %v\n", dumpErr)
		}
	}

	return err
}

// spawnResult tracks a background acquisition started with "spawn".
type spawnResult struct {
	mu     sync.Mutex
	done   bool
	err    error
	handle *safeseq.Handle[byte]
}

type repl struct {
	seq     *safeseq.SafeSequence[byte]
	owners  map[string]*safeseq.Owner
	handles map[string]*safeseq.Handle[byte]
	spawns  map[string]*spawnResult
	liner   *liner.State
}

func (r *repl) ownerFor(name string) *safeseq.Owner {
	o, ok := r.owners[name]
	if !ok {
		o = safeseq.NewOwner()
		r.owners[name] = o
	}
	return o
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".seqsh_history")
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("seqsh - safeseq demo shell (size=%d)\n", r.seq.Size())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("seqsh> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "reader":
			r.cmdAcquire(args, safeseq.RoleRead)
		case "writer":
			r.cmdAcquire(args, safeseq.RoleReadWrite)
		case "spawn":
			r.cmdSpawn(args)
		case "status":
			r.cmdStatus()
		case "get":
			r.cmdGet(args)
		case "set":
			r.cmdSet(args)
		case "advance":
			r.cmdAdvance(args)
		case "close":
			r.cmdClose(args)
		case "read":
			r.cmdRead(args)
		case "unsafe":
			r.cmdUnsafe()
		case "snapshot":
			r.cmdSnapshot(args)
		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()
	return nil
}

func (r *repl) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *repl) printHelp() {
	fmt.Println(`Commands:
  reader <owner> <offset>     acquire a reader Handle (blocks if needed)
  writer <owner> <offset>     acquire a writer Handle (blocks if needed)
  spawn <owner> <r|w> <off>   acquire in the background; may block
  status                      show background spawn status
  get <owner>                 read the element at the owner's cursor
  set <owner> <byte>          write a byte at the owner's cursor (writer only)
  advance <owner>             move the owner's cursor forward one element
  close <owner>               close the owner's open handle
  read <i>                    bypass the ledger, read index i directly
  unsafe                      demonstrate UnsafeCursor racing a writer
  snapshot [path]             print, or atomically dump, the ledger state
  help                        show this help
  exit / quit / q             exit`)
}

func (r *repl) cmdAcquire(args []string, role safeseq.Role) {
	if len(args) < 2 {
		fmt.Println("usage: reader|writer <owner> <offset>")
		return
	}
	offset, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("invalid offset: %v\n", err)
		return
	}
	owner := r.ownerFor(args[0])

	var h *safeseq.Handle[byte]
	if role == safeseq.RoleReadWrite {
		h, err = r.seq.WriterAt(owner, offset)
	} else {
		h, err = r.seq.ReaderAt(owner, offset)
	}
	if err != nil {
		fmt.Printf("acquire failed: %v\n", err)
		return
	}
	r.handles[args[0]] = h
	fmt.Printf("%s acquired at %d\n", args[0], offset)
}

func (r *repl) cmdSpawn(args []string) {
	if len(args) < 3 {
		fmt.Println("usage: spawn <owner> <r|w> <offset>")
		return
	}
	offset, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Printf("invalid offset: %v\n", err)
		return
	}
	name := args[0]
	owner := r.ownerFor(name)
	role := strings.ToLower(args[1])

	res := &spawnResult{}
	r.spawns[name] = res

	go func() {
		var h *safeseq.Handle[byte]
		var err error
		if role == "w" {
			h, err = r.seq.WriterAt(owner, offset)
		} else {
			h, err = r.seq.ReaderAt(owner, offset)
		}

		res.mu.Lock()
		res.done = true
		res.err = err
		res.handle = h
		res.mu.Unlock()
	}()

	fmt.Printf("spawned %s, check 'status' to see when it is admitted\n", name)
}

func (r *repl) cmdStatus() {
	if len(r.spawns) == 0 {
		fmt.Println("no spawned acquisitions")
		return
	}
	for name, res := range r.spawns {
		res.mu.Lock()
		switch {
		case !res.done:
			fmt.Printf("%s: waiting\n", name)
		case res.err != nil:
			fmt.Printf("%s: failed: %v\n", name, res.err)
		default:
			r.handles[name] = res.handle
			fmt.Printf("%s: admitted at %d\n", name, res.handle.Position())
		}
		res.mu.Unlock()
	}
}

func (r *repl) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: get <owner>")
		return
	}
	h := r.handles[args[0]]
	if h == nil {
		fmt.Printf("%s has no open handle\n", args[0])
		return
	}
	v, err := h.Get()
	if err != nil {
		fmt.Printf("get failed: %v\n", err)
		return
	}
	fmt.Printf("%s: %q at %d\n", args[0], v, h.Position())
}

func (r *repl) cmdSet(args []string) {
	if len(args) < 2 {
		fmt.Println("usage: set <owner> <byte>")
		return
	}
	h := r.handles[args[0]]
	if h == nil {
		fmt.Printf("%s has no open handle\n", args[0])
		return
	}
	if len(args[1]) != 1 {
		fmt.Println("value must be a single ASCII byte")
		return
	}
	if err := h.Set(args[1][0]); err != nil {
		fmt.Printf("set failed: %v\n", err)
		return
	}
	fmt.Printf("%s: set %q at %d\n", args[0], args[1][0], h.Position())
}

func (r *repl) cmdAdvance(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: advance <owner>")
		return
	}
	h := r.handles[args[0]]
	if h == nil {
		fmt.Printf("%s has no open handle\n", args[0])
		return
	}
	if err := h.Advance(); err != nil {
		fmt.Printf("advance failed: %v\n", err)
		return
	}
	fmt.Printf("%s: now at %d\n", args[0], h.Position())
}

func (r *repl) cmdClose(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: close <owner>")
		return
	}
	h := r.handles[args[0]]
	if h == nil {
		fmt.Printf("%s has no open handle\n", args[0])
		return
	}
	if err := h.Close(); err != nil {
		fmt.Printf("close failed: %v\n", err)
		return
	}
	delete(r.handles, args[0])
	fmt.Printf("%s: closed\n", args[0])
}

func (r *repl) cmdRead(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: read <i>")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid index: %v\n", err)
		return
	}
	v, err := r.seq.Read(i)
	if err != nil {
		fmt.Printf("read failed: %v\n", err)
		return
	}
	fmt.Printf("%d: %q\n", i, v)
}

func (r *repl) cmdUnsafe() {
	fmt.Println("running 4 unsafe readers against 1 writer for one pass each...")

	var wg sync.WaitGroup
	mixed := make([]bool, 4)

	writerOwner := safeseq.NewOwner()
	w, err := r.seq.BeginWrite(writerOwner)
	if err != nil {
		fmt.Printf("writer acquire failed: %v\n", err)
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for c := w.Position(); c < r.seq.Size(); {
			_ = w.Set('x')
			if err := w.Advance(); err != nil {
				break
			}
			c++
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			cur := r.seq.UnsafeBegin()
			first := cur.Get()
			for cur.Position() < r.seq.Size()-1 {
				cur.Next()
				if cur.Get() != first {
					mixed[idx] = true
				}
			}
		}(i)
	}

	wg.Wait()
	_ = w.Close()

	for i, m := range mixed {
		fmt.Printf("unsafe reader %d saw mixed buffer: %v\n", i, m)
	}
}

func (r *repl) cmdSnapshot(args []string) {
	snap := r.seq.Snapshot(nil)
	if len(args) == 0 {
		for _, e := range snap.Entries {
			fmt.Printf("%s: reader=%d writer=%d\n", e.Owner, e.Reader, e.Writer)
		}
		return
	}
	if err := safeseq.DumpSnapshot(args[0], snap); err != nil {
		fmt.Printf("snapshot dump failed: %v\n", err)
		return
	}
	fmt.Printf("snapshot written to %s\n", args[0])
}
