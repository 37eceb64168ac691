package forms

import (
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/api"
)

type LoginInput struct {
	Email    string
	Password string
}

func Login(in LoginInput) (api.Credentials, error) {
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)

	errs := FieldErrors{}
	if !ValidEmail(email) {
		errs.add("email", "Please enter a valid email address.")
	}
	if !minLen(password, 6) {
		errs.add("password", "Password must be at least 6 characters.")
	}
	if err := errs.err(); err != nil {
		return api.Credentials{}, err
	}
	return api.Credentials{Email: email, Password: password}, nil
}

type RegistrationInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

func Register(in RegistrationInput) (api.Registration, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	errs := FieldErrors{}
	if !minLen(name, 5) {
		errs.add("nombre", "Name must be at least 5 characters.")
	}
	if !ValidEmail(email) {
		errs.add("email", "Invalid email address.")
	}
	if !minLen(in.Password, 6) {
		errs.add("password", "Password must be at least 6 characters.")
	}
	if in.ConfirmPassword != in.Password {
		errs.add("confirmPassword", "Passwords do not match.")
	}
	if err := errs.err(); err != nil {
		return api.Registration{}, err
	}
	return api.Registration{Name: name, Email: email, Password: in.Password}, nil
}

type ContactInput struct {
	Name      string
	Email     string
	IVA       string
	Condition string
	Subject   string
	Message   string
}

func Contact(in ContactInput) (api.ContactMessage, error) {
	msg := api.ContactMessage{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		IVA:       strings.TrimSpace(in.IVA),
		Condition: strings.TrimSpace(in.Condition),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
	}

	errs := FieldErrors{}
	if !minLen(msg.Name, 5) {
		errs.add("name", "Name must be at least 5 characters.")
	}
	if !ValidEmail(msg.Email) {
		errs.add("email", "Email address is not valid.")
	}
	if msg.IVA == "" {
		errs.add("iva", "Select your VAT condition.")
	}
	if msg.Condition == "" {
		errs.add("condicion", "Select a purchase condition.")
	}
	if !minLen(msg.Subject, 10) {
		errs.add("subject", "Subject must be at least 10 characters.")
	}
	if !minLen(msg.Message, 25) {
		errs.add("message", "Message must be at least 25 characters.")
	}
	if err := errs.err(); err != nil {
		return api.ContactMessage{}, err
	}
	return msg, nil
}
