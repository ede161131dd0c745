package provider

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsdevblog/bundle-reconciler/internal/domain"
	"gopkg.in/yaml.v3"
)

// StatusMap сопоставляет сырые статусы провайдера итогам заказа. Поверх общего словаря могут быть заданы
// словари отдельных сетей, они имеют приоритет.
type StatusMap struct {
	defaults map[string]domain.Outcome
	networks map[string]map[string]domain.Outcome
}

// statusMapFile формат YAML файла: итог -> список сырых статусов.
//
//	default:
//	  completed: [delivered, done]
//	networks:
//	  telecel:
//	    pending: [awaiting_confirmation]
type statusMapFile struct {
	Default  map[domain.Outcome][]string            `yaml:"default"`
	Networks map[string]map[domain.Outcome][]string `yaml:"networks"`
}

func DefaultStatusMap() *StatusMap {
	m := &StatusMap{
		defaults: make(map[string]domain.Outcome),
		networks: make(map[string]map[string]domain.Outcome),
	}
	defaults := map[domain.Outcome][]string{
		domain.OutcomeCompleted: {"delivered", "completed", "successful", "success"},
		domain.OutcomeFailed:    {"failed", "error", "rejected"},
		domain.OutcomeCancelled: {"cancelled", "canceled", "reversed", "refunded"},
		domain.OutcomePending:   {"pending", "processing", "queued", "initiated", "in_progress"},
	}
	for outcome, raws := range defaults {
		for _, raw := range raws {
			m.defaults[normalize(raw)] = outcome
		}
	}
	return m
}

// LoadStatusMap читает YAML файл path и накладывает его на словарь по умолчанию. Пустой path - словарь
// по умолчанию.
func LoadStatusMap(path string) (*StatusMap, error) {
	m := DefaultStatusMap()
	if path == "" {
		return m, nil
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, fmt.Errorf("reading status map %s: %w", path, readErr)
	}
	if err := m.Merge(data); err != nil {
		return nil, fmt.Errorf("loading status map %s: %w", path, err)
	}
	return m, nil
}

// Merge добавляет к словарю записи из YAML документа data, перезаписывая совпадающие.
func (m *StatusMap) Merge(data []byte) error {
	var file statusMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if err := mergeInto(m.defaults, file.Default); err != nil {
		return err
	}
	for network, entries := range file.Networks {
		key := domain.NormalizeNetwork(network)
		if _, ok := m.networks[key]; !ok {
			m.networks[key] = make(map[string]domain.Outcome)
		}
		if err := mergeInto(m.networks[key], entries); err != nil {
			return fmt.Errorf("network %s: %w", network, err)
		}
	}
	return nil
}

// Resolve возвращает итог для сырого статуса raw сети network. ok == false, если статус неизвестен.
func (m *StatusMap) Resolve(network, raw string) (domain.Outcome, bool) {
	key := normalize(raw)
	if entries, ok := m.networks[domain.NormalizeNetwork(network)]; ok {
		if outcome, found := entries[key]; found {
			return outcome, true
		}
	}
	outcome, ok := m.defaults[key]
	return outcome, ok
}

func mergeInto(dst map[string]domain.Outcome, src map[domain.Outcome][]string) error {
	for outcome, raws := range src {
		if !outcome.IsValid() {
			return fmt.Errorf("unknown outcome %q", outcome)
		}
		for _, raw := range raws {
			key := normalize(raw)
			if key == "" {
				return fmt.Errorf("empty provider status for outcome %q", outcome)
			}
			dst[key] = outcome
		}
	}
	return nil
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
