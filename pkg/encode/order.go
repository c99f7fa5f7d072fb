package encode

import "io"

// WriteVariableOrder writes the BDD variable order: for each node of the
// at-least-one partition, its incident edge variables in neighbour order,
// each followed by the auxiliary variable recorded for it, then the
// variables of all absent edges. Call after [Encoder.WriteCNF], which fills
// the auxiliary map.
func (e *Encoder) WriteVariableOrder(w io.Writer) error {
	cw := &clauseWriter{w: w}
	atL, atM := DefaultPartitions(e.g)
	sizes := e.g.PartitionSizes()

	for i := 0; i < sizes[atL]; i++ {
		for _, j := range e.g.Neighbors(atL, i, atM) {
			id := VariableID(e.g, atL, i, atM, j)
			cw.printf("%d \n", id)
			if aux := e.auxVar(id); aux > 0 {
				cw.printf("%d \n", aux)
			}
		}
	}
	e.writeNonEdges(cw, atL, atM)
	return cw.err
}

// WriteBucketOrder writes the bucket grouping for BDD bucket elimination and
// completes the variable-order file started during clause emission. Each
// node of the at-least-one partition forms one bucket of its edge variables;
// from the second node on, the recorded auxiliary variables follow. Absent
// edge variables go to the tail of both files.
func (e *Encoder) WriteBucketOrder(varW, bucketW io.Writer) error {
	vcw := &clauseWriter{w: varW}
	bcw := &clauseWriter{w: bucketW}
	atL, atM := DefaultPartitions(e.g)
	sizes := e.g.PartitionSizes()

	for i := 0; i < sizes[atL]; i++ {
		neighbors := e.g.Neighbors(atL, i, atM)
		for _, j := range neighbors {
			bcw.printf("%d \n", VariableID(e.g, atL, i, atM, j))
		}
		if i > 0 {
			for _, j := range neighbors {
				if aux := e.auxVar(VariableID(e.g, atL, i, atM, j)); aux > 0 {
					bcw.printf("%d \n", aux)
				}
			}
		}
	}

	e.writeNonEdges(vcw, atL, atM)
	e.writeNonEdges(bcw, atL, atM)
	if vcw.err != nil {
		return vcw.err
	}
	return bcw.err
}

// auxVar returns the auxiliary variable recorded for an edge variable, or 0
// when tracking was off.
func (e *Encoder) auxVar(id int) int {
	if e.auxMap == nil {
		return 0
	}
	return e.auxMap[id]
}

// writeNonEdges appends the variables of every absent edge, in node order.
func (e *Encoder) writeNonEdges(cw *clauseWriter, atL, atM int) {
	sizes := e.g.PartitionSizes()
	for i := 0; i < sizes[atL]; i++ {
		for j := 0; j < sizes[atM]; j++ {
			if !e.g.IsEdge(atL, i, atM, j) {
				cw.printf("%d \n", VariableID(e.g, atL, i, atM, j))
			}
		}
	}
}
