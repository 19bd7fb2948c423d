package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/piwi3910/CargoFill/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultOrderContainer is the bin used for JSON order files, which carry no
// container of their own.
var DefaultOrderContainer = model.Container{Length: 1200, Width: 1200, Height: 1500}

// Instance is one named loading problem.
type Instance struct {
	Name      string
	Container model.Container
	Boxes     []model.Box
}

var digits = regexp.MustCompile(`\d+`)

// ImportText reads a benchmark instance. The line containing "Bin dimensions"
// supplies the container from its first three integers. Other lines of the
// form "id quantity length width height" add quantity boxes each; comment
// lines starting with '#' or '-' and the "id ..." column header are skipped.
func ImportText(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.Contains(line, "Bin dimensions") {
			if result.Container != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Line %d: Extra bin dimensions ignored", lineNum))
				continue
			}
			nums := digits.FindAllString(line, 3)
			if len(nums) < 3 {
				result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Bin dimensions need three integers", lineNum))
				continue
			}
			c := model.Container{}
			c.Length, _ = strconv.Atoi(nums[0])
			c.Width, _ = strconv.Atoi(nums[1])
			c.Height, _ = strconv.Atoi(nums[2])
			result.Container = &c
			continue
		}

		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") ||
			strings.HasPrefix(strings.ToLower(line), "id") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		ints := make([]int, 4)
		bad := ""
		for i, f := range fields[1:5] {
			n, err := strconv.Atoi(f)
			if err != nil {
				bad = f
				break
			}
			ints[i] = n
		}
		if bad != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Invalid number '%s'", lineNum, bad))
			continue
		}
		if ints[0] <= 0 || ints[1] <= 0 || ints[2] <= 0 || ints[3] <= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: Quantity and sizes must be positive", lineNum))
			continue
		}

		row := boxRow{
			label:    fields[0],
			quantity: ints[0],
			length:   ints[1],
			width:    ints[2],
			height:   ints[3],
		}
		result.Boxes = row.expand(result.Boxes)
	}
	if err := scanner.Err(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}

	if result.Container == nil {
		result.Errors = append(result.Errors, "No 'Bin dimensions' line found")
	}
	return result
}

// millimetres accepts both JSON numbers and numeric strings. Fractions
// round up like the spreadsheet importers.
type millimetres int

func (m *millimetres) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid size %s: %w", data, err)
	}
	*m = millimetres(math.Ceil(f))
	return nil
}

type orderItem struct {
	Length millimetres `json:"length/mm"`
	Width  millimetres `json:"width/mm"`
	Height millimetres `json:"height/mm"`
}

type order struct {
	ItemSequence orderedObject[orderItem] `json:"item_sequence"`
}

type member[V any] struct {
	Key   string
	Value V
}

// orderedObject decodes a JSON object keeping its members in document
// order. A repeated key keeps its first position and its last value.
type orderedObject[V any] []member[V]

func (o *orderedObject[V]) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object, got %v", tok)
	}

	members := orderedObject[V]{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if i, seen := index[key]; seen {
			members[i].Value = v
			continue
		}
		index[key] = len(members)
		members = append(members, member[V]{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = members
	return nil
}

// ImportOrders reads a JSON file mapping order ids to their item sequences
// and returns one instance per order, all using the given container. Orders
// and items keep the order they have in the file; box ids follow item order.
func ImportOrders(path string, container model.Container) ([]Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order file: %w", err)
	}

	var orders orderedObject[order]
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("failed to parse order file: %w", err)
	}

	instances := make([]Instance, 0, len(orders))
	for _, o := range orders {
		boxes := make([]model.Box, 0, len(o.Value.ItemSequence))
		for _, item := range o.Value.ItemSequence {
			b := model.NewBox(len(boxes), int(item.Value.Length), int(item.Value.Width), int(item.Value.Height))
			b.Label = item.Key
			boxes = append(boxes, b)
		}
		if err := model.ValidateBoxes(boxes); err != nil {
			return nil, fmt.Errorf("order %s: %w", o.Key, err)
		}
		instances = append(instances, Instance{Name: o.Key, Container: container, Boxes: boxes})
	}
	return instances, nil
}

// Manifest is the YAML instance format.
type Manifest struct {
	Container model.Container `yaml:"container"`
	Boxes     []ManifestBox   `yaml:"boxes"`
}

// ManifestBox is one manifest line; Quantity defaults to 1.
type ManifestBox struct {
	Label    string `yaml:"label"`
	Length   int    `yaml:"length"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Quantity int    `yaml:"quantity"`
}

// ImportManifest reads a YAML manifest with a container and a box list.
func ImportManifest(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot parse manifest: %v", err))
		return result
	}

	if m.Container.Volume() == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Container %s must have positive sides", m.Container))
	} else {
		c := m.Container
		result.Container = &c
	}

	for i, mb := range m.Boxes {
		entry := fmt.Sprintf("Box %d", i+1)
		qty := mb.Quantity
		if qty == 0 {
			qty = 1
		}
		if mb.Length <= 0 || mb.Width <= 0 || mb.Height <= 0 || qty < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Length, width, height, and quantity must be positive", entry))
			continue
		}
		label := mb.Label
		if label == "" {
			label = entry
		}
		row := boxRow{label: label, length: mb.Length, width: mb.Width, height: mb.Height, quantity: qty}
		result.Boxes = row.expand(result.Boxes)
	}

	if len(m.Boxes) == 0 {
		result.Warnings = append(result.Warnings, "Manifest lists no boxes")
	}
	return result
}

// Import loads an instance by file extension. JSON order files yield their
// first order in DefaultOrderContainer.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return ImportText(path)
	case ".csv":
		return ImportCSV(path)
	case ".xlsx", ".xls":
		return ImportExcel(path)
	case ".yaml", ".yml":
		return ImportManifest(path)
	case ".json":
		return importFirstOrder(path)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf("Unsupported file type '%s'", filepath.Ext(path))}}
	}
}

func importFirstOrder(path string) ImportResult {
	result := ImportResult{}

	instances, err := ImportOrders(path, DefaultOrderContainer)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if len(instances) == 0 {
		result.Errors = append(result.Errors, "Order file contains no orders")
		return result
	}
	if len(instances) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d orders, using order %s", len(instances), instances[0].Name))
	}

	c := instances[0].Container
	result.Container = &c
	result.Boxes = instances[0].Boxes
	return result
}
