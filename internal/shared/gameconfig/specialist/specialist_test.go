package specialist

import (
	"os"
	"path/filepath"
	"testing"

	"Civitas/internal/city/citizens"
	"Civitas/internal/city/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ citizens.Catalog = (*Catalog)(nil)

func TestDefault_内置表可加载(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	s, n := c.SpecialistSlots(domain.BuildingLibrary)
	assert.Equal(t, domain.SpecialistScientist, s)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, c.SpecialistYields(domain.SpecialistScientist).Get(domain.YieldScience))
	assert.Equal(t, 1, c.SpecialistYields(domain.SpecialistCitizen).Get(domain.YieldProduction))
	assert.Equal(t, 0, c.GreatPersonPoints(domain.SpecialistCitizen))
	assert.Equal(t, 3, c.GreatPersonPoints(domain.SpecialistArtist))

	s, n = c.SpecialistSlots(domain.NoBuilding)
	assert.Equal(t, domain.NoSpecialist, s)
	assert.Zero(t, n)
}

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_坏表返回错误(t *testing.T) {
	cases := map[string]string{
		"未知建筑": `{"specialists":[{"name":"scientist","yields":{"science":3}}],
			"buildings":[{"name":"castle","specialist":"scientist","slots":1}]}`,
		"未知产出": `{"specialists":[{"name":"scientist","yields":{"faith":3}}]}`,
		"默认专家占槽": `{"specialists":[{"name":"citizen","yields":{"production":1}}],
			"buildings":[{"name":"library","specialist":"citizen","slots":1}]}`,
		"负槽位": `{"specialists":[{"name":"scientist","yields":{"science":3}}],
			"buildings":[{"name":"library","specialist":"scientist","slots":-1}]}`,
		"重复专家": `{"specialists":[{"name":"scientist"},{"name":"scientist"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeTable(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_零槽位建筑不提供专家(t *testing.T) {
	c, err := Load(writeTable(t, `{"specialists":[{"name":"merchant","yields":{"gold":2},"great_person_points":1}],
		"buildings":[{"name":"market","specialist":"merchant","slots":0}]}`))
	require.NoError(t, err)

	s, n := c.SpecialistSlots(domain.BuildingMarket)
	assert.Equal(t, domain.NoSpecialist, s)
	assert.Zero(t, n)
	assert.Equal(t, 2, c.SpecialistYields(domain.SpecialistMerchant).Get(domain.YieldGold))
}
