package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_ExperienceByIdentity(t *testing.T) {
	p := NewProfile("u1")

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	first := p.AddExperience(Experience{Title: "Backend", Company: "ACME", From: from})
	second := p.AddExperience(Experience{Title: "Backend", Company: "ACME", From: from})

	// Deux entrées identiques champ à champ restent distinctes par id.
	require.Len(t, p.Experience, 2)
	require.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, p.Experience[0].ID, "plus récent en premier")

	assert.True(t, p.RemoveExperience(first.ID))
	require.Len(t, p.Experience, 1)
	assert.Equal(t, second.ID, p.Experience[0].ID)

	// Id déjà consommé : no-op signalé.
	assert.False(t, p.RemoveExperience(first.ID))
}

func TestProfile_EducationByIdentity(t *testing.T) {
	p := NewProfile("u1")

	edu := p.AddEducation(Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS"})
	require.Len(t, p.Education, 1)

	assert.False(t, p.RemoveEducation("nope"))
	assert.True(t, p.RemoveEducation(edu.ID))
	assert.Empty(t, p.Education)
}
