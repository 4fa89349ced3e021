package reference

import (
	"fmt"
	"strconv"
)

// ConditionIndex maps the numeric outcome codes found in some occurrence
// matrices to canonical condition labels.
type ConditionIndex map[int]string

// Labels are stored trimmed, the same way parsed dataset cells are, so a
// resolved code matches the detail tables byte-for-byte.
var defaultConditions = ConditionIndex{
	0:  "(vertigo) Paroymsal  Positional Vertigo",
	1:  "AIDS",
	2:  "Acne",
	3:  "Alcoholic hepatitis",
	4:  "Allergy",
	5:  "Arthritis",
	6:  "Bronchial Asthma",
	7:  "Cervical spondylosis",
	8:  "Chicken pox",
	9:  "Chronic cholestasis",
	10: "Common Cold",
	11: "Dengue",
	12: "Diabetes",
	13: "Dimorphic hemmorhoids(piles)",
	14: "Drug Reaction",
	15: "Fungal infection",
	16: "GERD",
	17: "Gastroenteritis",
	18: "Heart attack",
	19: "Hepatitis B",
	20: "Hepatitis C",
	21: "Hepatitis D",
	22: "Hepatitis E",
	23: "Hypertension",
	24: "Hyperthyroidism",
	25: "Hypoglycemia",
	26: "Hypothyroidism",
	27: "Impetigo",
	28: "Jaundice",
	29: "Malaria",
	30: "Migraine",
	31: "Osteoarthristis",
	32: "Paralysis (brain hemorrhage)",
	33: "Peptic ulcer diseae",
	34: "Pneumonia",
	35: "Psoriasis",
	36: "Tuberculosis",
	37: "Typhoid",
	38: "Urinary tract infection",
	39: "Varicose veins",
	40: "hepatitis A",
}

// DefaultConditionIndex returns a copy of the built-in code table.
func DefaultConditionIndex() ConditionIndex {
	out := make(ConditionIndex, len(defaultConditions))
	for k, v := range defaultConditions {
		out[k] = v
	}
	return out
}

// Lookup returns the label registered for code.
func (ci ConditionIndex) Lookup(code int) (string, bool) {
	label, ok := ci[code]
	return label, ok
}

// ConditionIndexFromTable reads a code,label table. Columns named "code" and
// "label" are preferred; otherwise the first two columns are used.
func ConditionIndexFromTable(t *Table) (ConditionIndex, error) {
	codeCol, labelCol := t.ColumnFold("code"), t.ColumnFold("label")
	if codeCol < 0 || labelCol < 0 {
		if len(t.Header) < 2 {
			return nil, fmt.Errorf("condition index needs two columns, got %d", len(t.Header))
		}
		codeCol, labelCol = 0, 1
	}
	out := make(ConditionIndex, t.Len())
	for i, row := range t.Rows {
		code, err := strconv.Atoi(row[codeCol])
		if err != nil {
			return nil, fmt.Errorf("condition index row %d: invalid code %q", i+1, row[codeCol])
		}
		if _, dup := out[code]; dup {
			continue
		}
		out[code] = row[labelCol]
	}
	return out, nil
}
