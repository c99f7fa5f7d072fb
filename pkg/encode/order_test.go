package encode

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/hardcnf/bipartgen/pkg/bitgraph"
)

func orderIDs(t *testing.T, data []byte) []int {
	t.Helper()
	var ids []int
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasSuffix(line, " ") {
			t.Errorf("order line %q missing trailing space", line)
		}
		id, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			t.Fatalf("bad order line %q", line)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestWriteVariableOrder_CoversEveryVariable(t *testing.T) {
	g := pigeonGraph(t, 3)
	opts := defaultOptions(g, EncodingSinz)
	opts.VarOrder = true

	enc := New(g, opts)
	var cnf bytes.Buffer
	if err := enc.WriteCNF(&cnf); err != nil {
		t.Fatal(err)
	}

	var ord bytes.Buffer
	if err := enc.WriteVariableOrder(&ord); err != nil {
		t.Fatal(err)
	}

	ids := orderIDs(t, ord.Bytes())
	seen := make(map[int]bool)
	for _, id := range ids {
		if id < 1 || id > enc.NumVars() {
			t.Errorf("order ID %d out of range 1..%d", id, enc.NumVars())
		}
		seen[id] = true
	}
	// Every edge variable of the complete graph appears; so do the Sinz
	// signal variables recorded during emission.
	for id := 1; id <= enc.NumVars(); id++ {
		if !seen[id] {
			t.Errorf("variable %d missing from order file", id)
		}
	}
}

func TestWriteVariableOrder_AppendsNonEdges(t *testing.T) {
	g, _ := bitgraph.New(3, 2)
	g.AddEdge(0, 0, 1, 0)
	g.AddEdge(0, 1, 1, 0)
	g.AddEdge(0, 1, 1, 1)
	g.AddEdge(0, 2, 1, 1)

	opts := Options{Encoding: EncodingDirect, ALO: []int{0}, AMO: []int{1}, VarOrder: true}
	enc := New(g, opts)
	var cnf bytes.Buffer
	if err := enc.WriteCNF(&cnf); err != nil {
		t.Fatal(err)
	}

	var ord bytes.Buffer
	if err := enc.WriteVariableOrder(&ord); err != nil {
		t.Fatal(err)
	}
	ids := orderIDs(t, ord.Bytes())

	// 4 present edges first, then the 2 absent slots of the 3x2 grid.
	if len(ids) != 6 {
		t.Fatalf("order file has %d IDs, want 6", len(ids))
	}
	absent := []int{VariableID(g, 0, 0, 1, 1), VariableID(g, 0, 2, 1, 0)}
	tail := ids[len(ids)-2:]
	for _, id := range absent {
		found := false
		for _, got := range tail {
			if got == id {
				found = true
			}
		}
		if !found {
			t.Errorf("absent-edge variable %d not in tail %v", id, tail)
		}
	}
}

func TestWriteBucketOrder_SinzStreamsIntoVarFile(t *testing.T) {
	g := pigeonGraph(t, 3)
	opts := defaultOptions(g, EncodingSinz)
	opts.BucketOrder = true

	enc := New(g, opts)
	var varBuf bytes.Buffer
	enc.SetVarOrderWriter(&varBuf)

	var cnf bytes.Buffer
	if err := enc.WriteCNF(&cnf); err != nil {
		t.Fatal(err)
	}
	// The Sinz encoder interleaves edge and signal IDs during emission.
	if varBuf.Len() == 0 {
		t.Fatal("variable-order stream empty after encoding")
	}

	var bucketBuf bytes.Buffer
	if err := enc.WriteBucketOrder(&varBuf, &bucketBuf); err != nil {
		t.Fatal(err)
	}

	varIDs := orderIDs(t, varBuf.Bytes())
	bucketIDs := orderIDs(t, bucketBuf.Bytes())
	if len(bucketIDs) == 0 {
		t.Fatal("bucket-order file empty")
	}
	for _, id := range append(varIDs, bucketIDs...) {
		if id < 1 || id > enc.NumVars() {
			t.Errorf("order ID %d out of range 1..%d", id, enc.NumVars())
		}
	}

	// The complete graph has no absent edges, so both files cover exactly
	// the variables the Sinz encoding touches.
	seen := make(map[int]bool)
	for _, id := range varIDs {
		seen[id] = true
	}
	for id := 1; id <= enc.NumVars(); id++ {
		if !seen[id] {
			t.Errorf("variable %d missing from variable-order stream", id)
		}
	}
}
