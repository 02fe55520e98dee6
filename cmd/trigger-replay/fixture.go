package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"opportunity_automation/internal/opportunity/automation"
	"opportunity_automation/internal/opportunity/domain"
	"opportunity_automation/internal/opportunity/transport"
	"opportunity_automation/platform/validator"
)

// fixture is a captured platform invocation.
type fixture struct {
	Phase                    string `yaml:"phase"`
	transport.TriggerRequest `yaml:",inline"`
}

func loadFixture(r io.Reader, val *validator.Validator) (*automation.Batch, error) {
	var f fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	phase, err := domain.ParsePhase(f.Phase)
	if err != nil {
		return nil, err
	}
	if err := val.Struct(f.TriggerRequest); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	return automation.NewBatch(phase, transport.ToDomainList(f.Records), transport.ToDomainList(f.Prior))
}
