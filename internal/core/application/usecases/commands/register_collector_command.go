package commands

import (
	"errors"
	"strings"

	"pickup/internal/core/domain/model/kernel"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/guard"
)

var ErrRegisterCollectorCommandIsNotConstructed = errors.New(
	"RegisterCollectorCommand must be created via NewRegisterCollectorCommand constructor",
)

type RegisterCollectorCommand struct {
	organizationID kernel.UUID
	fullName       string
	phone          string

	guard guard.ConstructorGuard
}

func NewRegisterCollectorCommand(organizationID kernel.UUID, fullName, phone string) (RegisterCollectorCommand, error) {
	var errList []error
	if err := organizationID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("organizationId", err))
	}
	if strings.TrimSpace(fullName) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("fullName"))
	}
	if err := errors.Join(errList...); err != nil {
		return RegisterCollectorCommand{}, err
	}

	return RegisterCollectorCommand{
		organizationID: organizationID,
		fullName:       fullName,
		phone:          phone,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterCollectorCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCollectorCommandIsNotConstructed)
}

func (c RegisterCollectorCommand) OrganizationID() kernel.UUID {
	return c.organizationID
}

func (c RegisterCollectorCommand) FullName() string {
	return c.fullName
}

func (c RegisterCollectorCommand) Phone() string {
	return c.phone
}
