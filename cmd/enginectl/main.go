// Command enginectl loads a graph description, drives a scripted
// sequence of set-input/tick/evaluate operations against it, and
// prints the resulting output-port snapshot. It optionally emits the
// AOT-generated Go source for the same graph to stdout instead of
// running it.
//
// Usage:
//
//	enginectl -graph graph.json -script script.json
//	enginectl -graph graph.json -emit-go -package mygraph
//
// Flags:
//
//	-graph string
//	    Path to a graph description JSON file (required)
//	-script string
//	    Path to a scripted operations JSON file
//	-emit-go
//	    Emit AOT-generated Go source for the graph instead of running it
//	-package string
//	    Package name for -emit-go output (default "generated")
//
// The script file is a JSON array of operations, applied in order:
//
//	[
//	  {"op": "set-input", "node": "switch", "value": 1},
//	  {"op": "tick", "delta_ms": 1500},
//	  {"op": "evaluate"}
//	]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/nodeflow/engine/pkg/codegen"
	"github.com/nodeflow/engine/pkg/engine"
	"github.com/nodeflow/engine/pkg/graph"
	"github.com/nodeflow/engine/pkg/loader"
	"github.com/nodeflow/engine/pkg/types"
)

// scriptOp is one entry of a script file. Fields not relevant to Op
// are ignored.
type scriptOp struct {
	Op      string  `json:"op"`
	Node    string  `json:"node"`
	Value   float64 `json:"value"`
	DeltaMs float64 `json:"delta_ms"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

func main() {
	graphPath := flag.String("graph", "", "Path to a graph description JSON file (required)")
	scriptPath := flag.String("script", "", "Path to a scripted operations JSON file")
	emitGo := flag.Bool("emit-go", false, "Emit AOT-generated Go source instead of running the graph")
	packageName := flag.String("package", "generated", "Package name for -emit-go output")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "enginectl: -graph is required")
		flag.Usage()
		os.Exit(2)
	}

	desc, g, err := loadGraph(*graphPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enginectl: %v\n", err)
		os.Exit(1)
	}

	if *emitGo {
		src, err := codegen.Generate(g, *packageName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "enginectl: codegen: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(src)
		return
	}

	eng, err := engine.Load(desc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "enginectl: engine.Load: %v\n", err)
		os.Exit(1)
	}
	eng.Evaluate()

	if *scriptPath != "" {
		ops, err := readScript(*scriptPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "enginectl: %v\n", err)
			os.Exit(1)
		}
		for i, op := range ops {
			if err := applyOp(eng, op); err != nil {
				fmt.Fprintf(os.Stderr, "enginectl: script step %d (%s): %v\n", i, op.Op, err)
				os.Exit(1)
			}
		}
	}

	printSnapshot(eng)
}

func loadGraph(path string) (types.Description, *graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Description{}, nil, fmt.Errorf("reading graph file: %w", err)
	}
	desc, err := loader.FromJSON(data)
	if err != nil {
		return types.Description{}, nil, fmt.Errorf("parsing graph file: %w", err)
	}
	g, err := graph.Load(desc)
	if err != nil {
		return types.Description{}, nil, fmt.Errorf("loading graph: %w", err)
	}
	return desc, g, nil
}

func readScript(path string) ([]scriptOp, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script file: %w", err)
	}
	var ops []scriptOp
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("parsing script file: %w", err)
	}
	return ops, nil
}

func applyOp(eng *engine.Engine, op scriptOp) error {
	switch op.Op {
	case "set-input":
		eng.SetInput(op.Node, op.Value)
	case "set-input-config":
		eng.SetInputConfig(op.Node, op.Min, op.Max)
	case "tick":
		eng.Tick(op.DeltaMs)
	case "evaluate":
		eng.Evaluate()
	default:
		return fmt.Errorf("unknown operation %q", op.Op)
	}
	return nil
}

func printSnapshot(eng *engine.Engine) {
	snap := eng.Snapshot()
	printable := make(map[string]any, len(snap))
	for portKey, v := range snap {
		printable[portKey] = valueAsAny(v)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	fmt.Printf("generation: %d\n", eng.CurrentEvaluationGeneration())
	_ = enc.Encode(printable)
}

// valueAsAny unwraps a types.Value's unexported tagged-union payload
// into a plain Go value JSON can encode directly.
func valueAsAny(v types.Value) any {
	switch v.Type() {
	case types.TypeI32:
		return v.I32()
	case types.TypeF32:
		return v.F32()
	case types.TypeString:
		return v.Str()
	default:
		return v.F64()
	}
}
