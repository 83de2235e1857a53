package memory

import (
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/budget"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/category"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/goal"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ledger"
	"github.com/TheuusWmv/ProjetoFynx-sub000/internal/service/ranking"
)

// Compile-time interface assertions documenting which interfaces Store satisfies.
var (
	_ ledger.Repo     = (*Store)(nil)
	_ ledger.Writer   = (*Store)(nil)
	_ goal.Repo       = (*Store)(nil)
	_ goal.Writer     = (*Store)(nil)
	_ budget.Repo     = (*Store)(nil)
	_ budget.Writer   = (*Store)(nil)
	_ category.Repo   = (*Store)(nil)
	_ category.Writer = (*Store)(nil)
	_ ranking.Repo    = (*Store)(nil)
	_ ranking.Writer  = (*Store)(nil)
)
