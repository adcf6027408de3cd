package dates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12/03/2023", "12/03/2023", true},
		{"1/3/2023", "01/03/2023", true},
		{"01-03-23", "01/03/2023", true},
		{"01.03.75", "01/03/1975", true},
		{"2023-03-12", "12/03/2023", true},
		{"2023-03-12T10:00:00Z", "12/03/2023", true},
		{"12 de março de 2023", "12/03/2023", true},
		{"Brasília, 5 de Dezembro de 2019.", "05/12/2019", true},
		{"1º de janeiro de 2020", "01/01/2020", true},
		{"March 7, 2021", "07/03/2021", true},
		{"  31/02/2023 ", "31/02/2023", false},
		{"sem data", "sem data", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFindPicksEarliest(t *testing.T) {
	got, ok := Find("Recebido em 2023-05-02, referente ao ofício de 10/04/2023")
	require.True(t, ok)
	require.Equal(t, "02/05/2023", got)
}

func TestHasLeadingDate(t *testing.T) {
	require.True(t, HasLeadingDate("  15/08/2022 - Ata da reunião"))
	require.True(t, HasLeadingDate("3 de abril de 2021\nSenhor Diretor"))
	require.False(t, HasLeadingDate("Ata da reunião de 15/08/2022"))
	require.False(t, HasLeadingDate("99/99/2022 lixo"))
}

func TestParse(t *testing.T) {
	tm, err := Parse("05/12/2019")
	require.NoError(t, err)
	require.Equal(t, 2019, tm.Year())
	require.Equal(t, 12, int(tm.Month()))
}
