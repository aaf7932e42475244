package csvimport

import (
	"fmt"
	"strings"

	"github.com/dalemusser/casadefe/internal/domain/models"
)

// Table is the relational table the SQL mode targets.
const Table = "casas_fe"

var sqlColumns = []string{
	"nome_lider", "cpf_lider", "email_lider", "telefone_lider", "data_nascimento_lider",
	"endereco", "rua", "numero", "bairro", "cep", "cidade", "ponto_referencia",
	"campus", "rede", "dias_semana", "horario", "nome_anfitriao", "telefone_anfitriao", "geracao",
}

// InsertStatement renders c as one INSERT INTO casas_fe statement.
// Meeting days become a text array literal; empty values become NULL.
func InsertStatement(c models.Casa) string {
	vals := []string{
		quote(c.LeaderName), quote(c.LeaderDocument), quote(c.LeaderEmail), quote(c.LeaderPhone), quote(c.LeaderBirthDate),
		quote(c.Address), quote(c.Street), quote(c.Number), quote(c.Neighborhood), quote(c.PostalCode), quote(c.City), quote(c.Landmark),
		quote(c.Campus), quote(c.Network), array(c.MeetingDays), quote(c.MeetingTime), quote(c.HostName), quote(c.HostPhone), quote(c.Generation),
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", Table, strings.Join(sqlColumns, ", "), strings.Join(vals, ", "))
}

func quote(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func array(items []string) string {
	if len(items) == 0 {
		return "NULL"
	}
	q := make([]string, len(items))
	for i, it := range items {
		q[i] = "'" + strings.ReplaceAll(it, "'", "''") + "'"
	}
	return "ARRAY[" + strings.Join(q, ", ") + "]"
}
