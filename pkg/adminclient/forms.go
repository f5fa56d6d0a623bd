package adminclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	ToastInternalError = "Internal Server Error"
	ToastGenericError  = "Something went wrong. Please try again."
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Outcome is what the dashboard shows after a form action. Err is set when
// the action failed; Toast is empty when the form never reached the API.
type Outcome struct {
	Toast    string
	Redirect string
	Err      error
}

func (o Outcome) OK() bool { return o.Err == nil }

// ErrorToast maps a failed call to the message shown to the owner.
func ErrorToast(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusInternalServerError {
		return ToastInternalError
	}
	return ToastGenericError
}

func failed(err error) Outcome {
	return Outcome{Toast: ErrorToast(err), Err: err}
}

type Labels struct {
	Title       string
	Description string
	Action      string
	Toast       string
}

type CategoryForm struct {
	client *Client
}

func NewCategoryForm(c *Client) *CategoryForm {
	return &CategoryForm{client: c}
}

// Labels depend on whether an existing category is being edited.
func (f *CategoryForm) Labels(initial *Category) Labels {
	if initial != nil {
		return Labels{
			Title:       "Edit category",
			Description: "Edit a category",
			Action:      "Save changes",
			Toast:       "Category updated",
		}
	}
	return Labels{
		Title:       "Create category",
		Description: "Add a new Category",
		Action:      "Create category",
		Toast:       "Category created",
	}
}

func categoriesPage(storeID uuid.UUID) string {
	return fmt.Sprintf("/%s/categories", storeID)
}

// Submit creates the category when initial is nil and updates it otherwise.
func (f *CategoryForm) Submit(ctx context.Context, storeID uuid.UUID, initial *Category, values CategoryValues) Outcome {
	if err := validate.Struct(values); err != nil {
		return Outcome{Err: err}
	}

	var err error
	if initial != nil {
		_, err = f.client.UpdateCategory(ctx, storeID, initial.ID, values)
	} else {
		_, err = f.client.CreateCategory(ctx, storeID, values)
	}
	if err != nil {
		return failed(err)
	}
	return Outcome{Toast: f.Labels(initial).Toast, Redirect: categoriesPage(storeID)}
}

func (f *CategoryForm) Delete(ctx context.Context, storeID, categoryID uuid.UUID) Outcome {
	if err := f.client.DeleteCategory(ctx, storeID, categoryID); err != nil {
		return failed(err)
	}
	return Outcome{Toast: "Category deleted", Redirect: categoriesPage(storeID)}
}

type SettingsForm struct {
	client *Client
	// StorefrontURL and APIURL are shown to the owner so they can wire their
	// storefront to this store.
	StorefrontURL string
	APIURL        string
}

func NewSettingsForm(c *Client, storefrontURL string) *SettingsForm {
	return &SettingsForm{client: c, StorefrontURL: storefrontURL, APIURL: c.baseURL}
}

// Links returns the storefront page and the API root of the store.
func (f *SettingsForm) Links(storeID uuid.UUID) (storefront, api string) {
	return fmt.Sprintf("%s/stores/%s", f.StorefrontURL, storeID),
		fmt.Sprintf("%s/stores/%s", f.APIURL, storeID)
}

// Submit renames the store. The page stays where it is.
func (f *SettingsForm) Submit(ctx context.Context, storeID uuid.UUID, values StoreValues) Outcome {
	if err := validate.Struct(values); err != nil {
		return Outcome{Err: err}
	}
	if _, err := f.client.RenameStore(ctx, storeID, values); err != nil {
		return failed(err)
	}
	return Outcome{Toast: "Store updated"}
}

func (f *SettingsForm) Delete(ctx context.Context, storeID uuid.UUID) Outcome {
	if err := f.client.DeleteStore(ctx, storeID); err != nil {
		return failed(err)
	}
	return Outcome{Toast: "Store deleted", Redirect: "/"}
}
