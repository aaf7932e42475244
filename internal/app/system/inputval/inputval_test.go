package inputval

import "testing"

type step struct {
	Name   string   `json:"name" validate:"required,max=10" label:"Nome"`
	Email  string   `json:"email" validate:"required,email" label:"E-mail"`
	Phone  string   `json:"phone" validate:"required,phone" label:"Telefone"`
	Days   []string `json:"days" validate:"required,min=1,dive,weekday" label:"Dia"`
	Age    *int     `json:"age,omitempty" validate:"omitempty,min=0,max=130" label:"Idade"`
	Ignore string   `json:"-"`
}

func TestValidate_AllMissing_OneErrorPerField(t *testing.T) {
	res := Validate(step{})
	if !res.HasErrors() {
		t.Fatal("expected errors")
	}
	for _, f := range []string{"name", "email", "phone", "days"} {
		if _, ok := res.Fields[f]; !ok {
			t.Errorf("missing error for %q; got %v", f, res.Fields)
		}
	}
	if len(res.Fields) != 4 {
		t.Errorf("got %d errors, want 4: %v", len(res.Fields), res.Fields)
	}
	if got := res.Fields["name"]; got != "Nome é obrigatório." {
		t.Errorf("name message = %q", got)
	}
	if res.First() != res.Fields["name"] {
		t.Errorf("First() = %q, want the name message", res.First())
	}
}

func TestValidate_Valid(t *testing.T) {
	age := 30
	res := Validate(step{
		Name:  "Ana",
		Email: "ana@igreja.org",
		Phone: "+55 (11) 98765-4321",
		Days:  []string{"quarta-feira"},
		Age:   &age,
	})
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Fields)
	}
}

func TestValidate_Malformed(t *testing.T) {
	age := 200
	res := Validate(step{
		Name:  "Nome muito comprido",
		Email: "sem-arroba",
		Phone: "1234",
		Days:  []string{"quarta", "feriado"},
		Age:   &age,
	})
	want := map[string]string{
		"name":    "Nome deve ter no máximo 10 caracteres.",
		"email":   "E-mail deve ser um e-mail válido.",
		"phone":   "Telefone deve conter DDD e número.",
		"days[1]": "Dia deve ser um dia da semana.",
		"age":     "Idade deve ser no máximo 130.",
	}
	for k, msg := range want {
		if res.Fields[k] != msg {
			t.Errorf("Fields[%q] = %q, want %q", k, res.Fields[k], msg)
		}
	}
}

func TestResult_Merge(t *testing.T) {
	var outer Result
	inner := Validate(step{Email: "a@b.co", Phone: "11987654321", Days: []string{"sexta"}})
	outer.Merge("members[2].", inner)
	if _, ok := outer.Fields["members[2].name"]; !ok {
		t.Errorf("expected prefixed key, got %v", outer.Fields)
	}
}
