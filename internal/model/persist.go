package model

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const maxLineBytes = 16 << 20

// Save writes the topology followed by one "bias,w0,...,wN" line per computed
// unit, hidden layers first and the output layer last.
func (n *Network) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, v := range []int{n.topo.Inputs, n.topo.HiddenLayers, n.topo.HiddenWidth, n.topo.Outputs} {
		bw.WriteString(strconv.Itoa(v))
		bw.WriteByte('\n')
	}
	buf := make([]byte, 0, 64)
	for _, layer := range n.computed {
		for i := range layer {
			u := &layer[i]
			buf = strconv.AppendFloat(buf[:0], u.bias, 'g', -1, 64)
			for _, wt := range u.weights {
				buf = append(buf, ',')
				buf = strconv.AppendFloat(buf, wt, 'g', -1, 64)
			}
			buf = append(buf, '\n')
			bw.Write(buf)
		}
	}
	return errors.Wrap(bw.Flush(), "write network")
}

// SaveFile writes the network to path, replacing any existing file.
func (n *Network) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create network file")
	}
	if err := n.Save(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "close network file")
}

// Load replaces every bias and weight with the values read from r. The
// topology recorded in r must match exactly. On any error the network is
// left unchanged.
func (n *Network) Load(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimSpace(sc.Text()), true
	}

	want := []int{n.topo.Inputs, n.topo.HiddenLayers, n.topo.HiddenWidth, n.topo.Outputs}
	names := []string{"inputs", "hidden layers", "hidden width", "outputs"}
	for i, expected := range want {
		line, ok := next()
		if !ok {
			return n.scanErr(sc, "missing %s line", names[i])
		}
		got, err := strconv.Atoi(line)
		if err != nil {
			return errors.Wrapf(ErrFormat, "line %d: %s: %v", lineNo, names[i], err)
		}
		if got != expected {
			return errors.Wrapf(ErrTopologyMismatch, "%s: file has %d, network has %d", names[i], got, expected)
		}
	}

	staged := make([][]float64, 0)
	for _, layer := range n.computed {
		for i := range layer {
			line, ok := next()
			if !ok {
				return n.scanErr(sc, "missing unit line %d", len(staged)+1)
			}
			params, err := parseUnitLine(line, len(layer[i].weights))
			if err != nil {
				return errors.Wrapf(err, "line %d", lineNo)
			}
			staged = append(staged, params)
		}
	}
	for {
		line, ok := next()
		if !ok {
			break
		}
		if line != "" {
			return errors.Wrapf(ErrFormat, "line %d: unexpected trailing data", lineNo)
		}
	}
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read network")
	}

	k := 0
	for _, layer := range n.computed {
		for i := range layer {
			layer[i].setParameters(staged[k][0], staged[k][1:])
			k++
		}
	}
	return nil
}

// LoadFile loads parameters from the file at path.
func (n *Network) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open network file")
	}
	defer f.Close()
	return errors.Wrapf(n.Load(bufio.NewReader(f)), "load %s", path)
}

func (n *Network) scanErr(sc *bufio.Scanner, format string, args ...interface{}) error {
	if err := sc.Err(); err != nil {
		return errors.Wrap(err, "read network")
	}
	return errors.Wrapf(ErrFormat, format, args...)
}

func parseUnitLine(line string, fanIn int) ([]float64, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fanIn+1 {
		return nil, errors.Wrapf(ErrFormat, "got %d fields, want %d", len(fields), fanIn+1)
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrFormat, "field %d: %v", i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrFormat, "field %d: non-finite value %q", i, f)
		}
		out[i] = v
	}
	return out, nil
}

// LoadExplicit sets hidden and output parameters from in-memory arrays:
// hiddenBiases[l][j], hiddenWeights[l][j][i], outputBiases[k] and
// outputWeights[k][j]. Shapes are checked before anything is assigned.
func (n *Network) LoadExplicit(hiddenBiases [][]float64, hiddenWeights [][][]float64, outputBiases []float64, outputWeights [][]float64) error {
	hidden := n.hiddenLayers()
	if len(hiddenBiases) != len(hidden) || len(hiddenWeights) != len(hidden) {
		return errors.Wrapf(ErrTopologyMismatch, "got %d/%d hidden layers, want %d", len(hiddenBiases), len(hiddenWeights), len(hidden))
	}
	for l, layer := range hidden {
		if err := checkLayerShape(layer, hiddenBiases[l], hiddenWeights[l]); err != nil {
			return errors.Wrapf(err, "hidden layer %d", l)
		}
	}
	out := n.outputLayer()
	if err := checkLayerShape(out, outputBiases, outputWeights); err != nil {
		return errors.Wrap(err, "output layer")
	}

	for l, layer := range hidden {
		for j := range layer {
			layer[j].setParameters(hiddenBiases[l][j], hiddenWeights[l][j])
		}
	}
	for k := range out {
		out[k].setParameters(outputBiases[k], outputWeights[k])
	}
	return nil
}

func checkLayerShape(layer []computedUnit, biases []float64, weights [][]float64) error {
	if len(biases) != len(layer) || len(weights) != len(layer) {
		return errors.Wrapf(ErrTopologyMismatch, "got %d biases and %d weight rows, want %d", len(biases), len(weights), len(layer))
	}
	for j, row := range weights {
		if len(row) != len(layer[j].weights) {
			return errors.Wrapf(ErrTopologyMismatch, "unit %d has %d weights, want %d", j, len(row), len(layer[j].weights))
		}
	}
	return nil
}
