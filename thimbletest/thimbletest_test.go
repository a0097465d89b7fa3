package thimbletest_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danpasecinic/thimble"
	"github.com/danpasecinic/thimble/thimbletest"
)

type Settings struct {
	Port int
}

type UserRepository interface {
	FindByID(id int) string
}

type MemoryUserRepository struct {
	Settings *Settings `inject:""`
}

func (r *MemoryUserRepository) FindByID(id int) string {
	return fmt.Sprintf("user-%d@%d", id, r.Settings.Port)
}

// recorder stands in for *testing.T to observe failures.
type recorder struct {
	*testing.T
	fatal string
}

func (r *recorder) Fatalf(format string, args ...any) {
	r.fatal = fmt.Sprintf(format, args...)
}

func TestBindAndGet(t *testing.T) {
	t.Parallel()

	tc := thimbletest.New(t)
	thimbletest.MustBindValue(tc, &Settings{Port: 8080})
	thimbletest.MustBind[UserRepository, *MemoryUserRepository](tc)

	c := tc.RequireBuild()

	repo := thimbletest.MustGet[UserRepository](c)
	assert.Equal(t, "user-1@8080", repo.FindByID(1))

	thimbletest.AssertHas[UserRepository](c)
	thimbletest.AssertNotHas[*MemoryUserRepository](c)
}

func TestQualifiedValue(t *testing.T) {
	t.Parallel()

	tc := thimbletest.New(t)
	thimbletest.MustBindValue(tc, &Settings{Port: 1}, thimble.Named("admin"))

	c := tc.RequireBuild()

	thimbletest.AssertHas[*Settings](c, thimble.Named("admin"))
	thimbletest.AssertNotHas[*Settings](c)
	assert.Equal(t, 1, thimbletest.MustGet[*Settings](c, thimble.Named("admin")).Port)
}

func TestRequireBuildReportsMissingDependency(t *testing.T) {
	t.Parallel()

	r := &recorder{T: t}
	tc := thimbletest.New(r)
	thimbletest.MustBind[UserRepository, *MemoryUserRepository](tc)

	tc.RequireBuild()

	assert.Contains(t, r.fatal, "failed to build container")
	assert.Contains(t, r.fatal, "DEPENDENCY_NOT_FOUND")
}

func TestMustBindValueReportsDuplicate(t *testing.T) {
	t.Parallel()

	r := &recorder{T: t}
	tc := thimbletest.New(r)
	thimbletest.MustBindValue(tc, &Settings{})
	thimbletest.MustBindValue(tc, &Settings{})

	assert.Contains(t, r.fatal, "DUPLICATE_BINDING")
}

func TestRequireApply(t *testing.T) {
	t.Parallel()

	module := thimble.NewModule("settings")
	thimble.ModuleBindValue(module, &Settings{Port: 9090})

	tc := thimbletest.New(t)
	tc.RequireApply(module)

	c := tc.RequireBuild()
	assert.Equal(t, 9090, thimbletest.MustGet[*Settings](c).Port)
}
