package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ImportLeadsUseCase processa o CSV de upload. Cabeçalho esperado (ordem
// livre): full_name, phone_number, email, city, state, service, clinic_name.
// Linhas inválidas são puladas e reportadas, não abortam o import.
type ImportLeadsUseCase struct {
	CreateLead *CreateLeadUseCase
}

func NewImportLeadsUseCase(createLead *CreateLeadUseCase) *ImportLeadsUseCase {
	return &ImportLeadsUseCase{CreateLead: createLead}
}

func (uc *ImportLeadsUseCase) Execute(ctx context.Context, r io.Reader, createdBy *int64) (*ImportLeadsOutput, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &DomainError{Code: CodeValidationError, Message: "CSV vazio ou ilegível"}
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["full_name"]; !ok {
		return nil, &DomainError{Code: CodeValidationError, Message: "CSV sem coluna full_name"}
	}
	if _, ok := col["phone_number"]; !ok {
		return nil, &DomainError{Code: CodeValidationError, Message: "CSV sem coluna phone_number"}
	}

	get := func(record []string, name string) string {
		if i, ok := col[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	output := &ImportLeadsOutput{}
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			output.Skipped++
			output.Errors = append(output.Errors, fmt.Sprintf("linha %d: %v", line, err))
			continue
		}

		input := CreateLeadInput{
			FullName:    get(record, "full_name"),
			PhoneNumber: get(record, "phone_number"),
			Email:       get(record, "email"),
			City:        get(record, "city"),
			State:       get(record, "state"),
			Service:     get(record, "service"),
			ClinicName:  get(record, "clinic_name"),
			Source:      "upload",
			CreatedBy:   createdBy,
		}

		lead, err := uc.CreateLead.Execute(ctx, input)
		if err != nil {
			output.Skipped++
			output.Errors = append(output.Errors, fmt.Sprintf("linha %d: %v", line, err))
			continue
		}

		output.Imported++
		output.Leads = append(output.Leads, lead)
	}

	return output, nil
}
