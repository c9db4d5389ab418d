package cli

import (
	"fmt"
	"os"

	"github.com/cloud-ru/mcp-fixed-income-go/internal/request"
	"gopkg.in/yaml.v3"
)

// ComparisonFile файл для команды compare
type ComparisonFile struct {
	A request.InvestmentSpec `yaml:"a"`
	B request.InvestmentSpec `yaml:"b"`
}

func LoadComparisonFile(filename string) (ComparisonFile, error) {
	var f ComparisonFile
	input, err := os.ReadFile(filename)
	if err != nil {
		return f, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &f); err != nil {
		return f, fmt.Errorf("%w: can't unmarshal comparison file", err)
	}

	return f, nil
}
