package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v2"

	"github.com/spf13/viper"

	"vault_console/internal/models"
	"vault_console/internal/risk"
)

// riskcfg — линтер файла риск-оверрайдов. Нормализует списки символов,
// проверяет границы и печатает effective-шаблон для каждого vault,
// после чего пишет нормализованный файл обратно.
//
// Формат файла (riskcfg.yaml):
//
//	base:
//	  allowedSymbols: "btc, eth"
//	  maxLeverage: 10
//	vaults:
//	  "0xVAULT":
//	    allowedSymbols: eth
//	    minNotionalUsd: 10

const defaultConfigName = "riskcfg.yaml"

type fileTemplate struct {
	AllowedSymbols string   `mapstructure:"allowedSymbols" yaml:"allowedSymbols,omitempty"`
	MinLeverage    *float64 `mapstructure:"minLeverage" yaml:"minLeverage,omitempty"`
	MaxLeverage    *float64 `mapstructure:"maxLeverage" yaml:"maxLeverage,omitempty"`
	MinNotionalUsd *float64 `mapstructure:"minNotionalUsd" yaml:"minNotionalUsd,omitempty"`
	MaxNotionalUsd *float64 `mapstructure:"maxNotionalUsd" yaml:"maxNotionalUsd,omitempty"`
}

func (t fileTemplate) toModel() models.RiskTemplate {
	return models.RiskTemplate{
		AllowedSymbols: t.AllowedSymbols,
		MinLeverage:    t.MinLeverage,
		MaxLeverage:    t.MaxLeverage,
		MinNotionalUsd: t.MinNotionalUsd,
		MaxNotionalUsd: t.MaxNotionalUsd,
	}
}

func fromModel(m models.RiskTemplate) fileTemplate {
	return fileTemplate{
		AllowedSymbols: m.AllowedSymbols,
		MinLeverage:    m.MinLeverage,
		MaxLeverage:    m.MaxLeverage,
		MinNotionalUsd: m.MinNotionalUsd,
		MaxNotionalUsd: m.MaxNotionalUsd,
	}
}

type fileContent struct {
	Base   fileTemplate            `yaml:"base"`
	Vaults map[string]fileTemplate `yaml:"vaults"`
}

func validateBounds(name string, t models.RiskTemplate) error {
	if t.MinLeverage != nil && *t.MinLeverage <= 0 {
		return errors.Errorf("%s: minLeverage must be positive", name)
	}
	if t.MinLeverage != nil && t.MaxLeverage != nil && *t.MinLeverage > *t.MaxLeverage {
		return errors.Errorf("%s: minLeverage > maxLeverage", name)
	}
	if t.MinNotionalUsd != nil && *t.MinNotionalUsd < 0 {
		return errors.Errorf("%s: minNotionalUsd must not be negative", name)
	}
	if t.MinNotionalUsd != nil && t.MaxNotionalUsd != nil && *t.MinNotionalUsd > *t.MaxNotionalUsd {
		return errors.Errorf("%s: minNotionalUsd > maxNotionalUsd", name)
	}
	return nil
}

func normalize(t models.RiskTemplate) models.RiskTemplate {
	t.AllowedSymbols = risk.NormalizeSymbols(t.AllowedSymbols)
	return t
}

func formatLine(t models.RiskTemplate) string {
	out := ""
	if t.AllowedSymbols != "" {
		out += fmt.Sprintf(" symbols=%s", t.AllowedSymbols)
	}
	if t.MinLeverage != nil {
		out += fmt.Sprintf(" minLev=%g", *t.MinLeverage)
	}
	if t.MaxLeverage != nil {
		out += fmt.Sprintf(" maxLev=%g", *t.MaxLeverage)
	}
	if t.MinNotionalUsd != nil {
		out += fmt.Sprintf(" minUsd=%g", *t.MinNotionalUsd)
	}
	if t.MaxNotionalUsd != nil {
		out += fmt.Sprintf(" maxUsd=%g", *t.MaxNotionalUsd)
	}
	if out == "" {
		return " (empty)"
	}
	return out
}

func writeBack(file string, content fileContent) error {
	bs, err := yaml.Marshal(content)
	if err != nil {
		return errors.Wrap(err, "marshal config to yaml")
	}
	if err := os.WriteFile(file, bs, 0o644); err != nil {
		return errors.Wrap(err, "write normalized file")
	}
	return nil
}

func main() {
	file := defaultConfigName
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	viper.SetConfigFile(file)
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var baseFile fileTemplate
	if err := viper.UnmarshalKey("base", &baseFile); err != nil {
		panic(fmt.Errorf("decode base: %w", err))
	}
	base := normalize(baseFile.toModel())
	if base.IsZero() {
		panic("has no base template in config")
	}
	if err := validateBounds("base", base); err != nil {
		panic(err)
	}

	var vaultsFile map[string]fileTemplate
	if err := viper.UnmarshalKey("vaults", &vaultsFile); err != nil {
		panic(fmt.Errorf("decode vaults: %w", err))
	}

	result := fileContent{
		Base:   fromModel(base),
		Vaults: make(map[string]fileTemplate, len(vaultsFile)),
	}

	ids := make([]string, 0, len(vaultsFile))
	for id := range vaultsFile {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("base:%s\n", formatLine(base))
	for _, id := range ids {
		override := normalize(vaultsFile[id].toModel())
		if err := validateBounds(id, override); err != nil {
			panic(err)
		}

		effective, err := risk.Resolve(&base, override)
		if err != nil {
			panic(errors.Wrapf(err, "resolve %s", id))
		}

		result.Vaults[id] = fromModel(override)
		fmt.Printf("%s:\n  override:%s\n  effective:%s\n", id, formatLine(override), formatLine(effective))
	}

	if err := writeBack(file, result); err != nil {
		panic(err)
	}
	fmt.Println("done")
}
