package repository

import (
	"errors"
	"fmt"

	"github.com/MiddlePlayer-001/Proto-app-PVD/internal/apperror"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Constraint names declared in the migrations.
const (
	constraintEstoque = "chk_produtos_estoque"
	constraintCodigo  = "uq_produtos_codigo"
	constraintNome    = "uq_produtos_nome"
	constraintData    = "uq_fechamentos_data"
	constraintVendaTx = "uq_transacoes_venda_categoria"
)

var constraintMessages = map[string]string{
	constraintCodigo:  "ja existe um produto com este codigo",
	constraintNome:    "ja existe um produto com este nome",
	constraintData:    "ja existe fechamento para esta data",
	constraintVendaTx: "a venda ja possui lancamento desta categoria",
}

// translate maps driver errors onto the domain error kinds. Errors it does not
// recognise are wrapped with op and keep their original chain, so retry logic
// can still inspect the SQLSTATE.
func translate(err error, op, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			msg, ok := constraintMessages[pgErr.ConstraintName]
			if !ok {
				msg = entity + " duplicado"
			}
			return apperror.Wrap(apperror.ErrDuplicateKey, msg, err)
		case pgerrcode.CheckViolation:
			if pgErr.ConstraintName == constraintEstoque {
				return apperror.Wrap(apperror.ErrInvalidStock, "estoque nao pode ficar negativo", err)
			}
			return apperror.Wrap(apperror.ErrValidation, "restricao violada: "+pgErr.ConstraintName, err)
		case pgerrcode.StringDataRightTruncationDataException:
			return apperror.Wrap(apperror.ErrValidation, "valor longo demais para "+entity, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
