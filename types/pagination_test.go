package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationHelperDefaults(t *testing.T) {
	p := NewPaginationHelper(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 0, p.Offset)
}

func TestNewPaginationHelperSnapsToAllowedSize(t *testing.T) {
	p := NewPaginationHelper(2, 33)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 20, p.Offset)

	p = NewPaginationHelper(1, 7)
	assert.Equal(t, 10, p.PageSize)
}

func TestBuildResponseTotalPages(t *testing.T) {
	p := NewPaginationHelper(1, 10)
	resp := p.BuildResponse([]int{1, 2, 3}, 25)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 25, resp.Pagination.Total)
}

func TestValidatePageSize(t *testing.T) {
	assert.NoError(t, ValidatePageSize(50))
	assert.Error(t, ValidatePageSize(15))
}
