package diag

import "caret/internal/source"

func New(sev Severity, code Code, file source.FileID, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		File:     file,
		Message:  msg,
	}
}

func NewError(code Code, file source.FileID, msg string) Diagnostic {
	return New(SevError, code, file, msg)
}

func NewWarning(code Code, file source.FileID, msg string) Diagnostic {
	return New(SevWarning, code, file, msg)
}

func NewAdvice(code Code, file source.FileID, msg string) Diagnostic {
	return New(SevAdvice, code, file, msg)
}

func (d Diagnostic) WithLabel(label string, span source.Span) Diagnostic {
	d.Labels = append(d.Labels, source.Labeled(label, span))
	return d
}

func (d Diagnostic) WithPrimaryLabel(label string, span source.Span) Diagnostic {
	d.Labels = append(d.Labels, source.LabeledSpan{Span: span, Label: label, Primary: true})
	return d
}

func (d Diagnostic) WithUnderline(span source.Span) Diagnostic {
	d.Labels = append(d.Labels, source.Underline(span))
	return d
}

func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}

func (d Diagnostic) WithURL(url string) Diagnostic {
	d.URL = url
	return d
}

func (d Diagnostic) WithCause(cause string) Diagnostic {
	d.Causes = append(d.Causes, cause)
	return d
}

func (d Diagnostic) WithRelated(related Diagnostic) Diagnostic {
	d.Related = append(d.Related, related)
	return d
}
