// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
)

// =============================================================================
// TEX TO UNICODE
// =============================================================================

// Terminals cannot typeset TeX, so common commands, fractions, roots, and
// scripts are mapped to Unicode. Anything unknown is left as written.

var texSymbols = map[string]string{
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ", `\epsilon`: "ε",
	`\varepsilon`: "ε", `\zeta`: "ζ", `\eta`: "η", `\theta`: "θ", `\iota`: "ι",
	`\kappa`: "κ", `\lambda`: "λ", `\mu`: "μ", `\nu`: "ν", `\xi`: "ξ", `\pi`: "π",
	`\rho`: "ρ", `\sigma`: "σ", `\tau`: "τ", `\upsilon`: "υ", `\phi`: "φ",
	`\varphi`: "φ", `\chi`: "χ", `\psi`: "ψ", `\omega`: "ω",
	`\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ", `\Lambda`: "Λ", `\Xi`: "Ξ",
	`\Pi`: "Π", `\Sigma`: "Σ", `\Phi`: "Φ", `\Psi`: "Ψ", `\Omega`: "Ω",
	`\times`: "×", `\cdot`: "·", `\div`: "÷", `\pm`: "±", `\mp`: "∓",
	`\leq`: "≤", `\le`: "≤", `\geq`: "≥", `\ge`: "≥", `\neq`: "≠", `\ne`: "≠",
	`\approx`: "≈", `\equiv`: "≡", `\sim`: "∼", `\propto`: "∝",
	`\infty`: "∞", `\partial`: "∂", `\nabla`: "∇", `\sum`: "∑", `\prod`: "∏",
	`\int`: "∫", `\oint`: "∮", `\in`: "∈", `\notin`: "∉", `\subset`: "⊂",
	`\subseteq`: "⊆", `\cup`: "∪", `\cap`: "∩", `\emptyset`: "∅",
	`\forall`: "∀", `\exists`: "∃", `\neg`: "¬", `\land`: "∧", `\lor`: "∨",
	`\to`: "→", `\rightarrow`: "→", `\leftarrow`: "←", `\Rightarrow`: "⇒",
	`\Leftarrow`: "⇐", `\leftrightarrow`: "↔", `\Leftrightarrow`: "⇔",
	`\mapsto`: "↦", `\ldots`: "…", `\cdots`: "⋯", `\degree`: "°", `\circ`: "∘",
	`\quad`: "  ", `\qquad`: "    ", `\,`: " ", `\;`: " ", `\!`: "",
	`\left`: "", `\right`: "", `\{`: "{", `\}`: "}", `\%`: "%",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶',
	'7': '⁷', '8': '⁸', '9': '⁹', '+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽',
	')': '⁾', 'n': 'ⁿ', 'i': 'ⁱ', 'x': 'ˣ', 'T': 'ᵀ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆',
	'7': '₇', '8': '₈', '9': '₉', '+': '₊', '-': '₋', '=': '₌', '(': '₍',
	')': '₎', 'a': 'ₐ', 'e': 'ₑ', 'i': 'ᵢ', 'j': 'ⱼ', 'k': 'ₖ', 'n': 'ₙ',
	'o': 'ₒ', 'x': 'ₓ',
}

var (
	texCommand = regexp.MustCompile(`\\(?:[a-zA-Z]+|[,;!{}%])`)
	texText    = regexp.MustCompile(`\\(?:text|mathrm|mathbf|mathit|operatorname)\{([^{}]*)\}`)
)

// TeXToUnicode renders TeX as plain Unicode text.
func TeXToUnicode(tex string) string {
	s := strings.TrimSpace(tex)
	s = texText.ReplaceAllString(s, "$1")
	s = replaceCommandArgs(s, `\frac`, 2, func(args []string) string {
		return group(args[0]) + "/" + group(args[1])
	})
	s = replaceCommandArgs(s, `\sqrt`, 1, func(args []string) string {
		return "√" + group(args[0])
	})
	s = texCommand.ReplaceAllStringFunc(s, func(cmd string) string {
		if sym, ok := texSymbols[cmd]; ok {
			return sym
		}
		return cmd
	})
	s = scripts(s, '^', superscripts)
	s = scripts(s, '_', subscripts)
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return s
}

// group parenthesizes multi-character expressions.
func group(s string) string {
	s = TeXToUnicode(s)
	if len([]rune(s)) <= 1 {
		return s
	}
	return "(" + s + ")"
}

// replaceCommandArgs rewrites cmd{a}{b}... using fn. Unbalanced input is left alone.
func replaceCommandArgs(s, cmd string, nargs int, fn func([]string) string) string {
	var sb strings.Builder
	for {
		i := strings.Index(s, cmd+"{")
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		pos := i + len(cmd)
		args := make([]string, 0, nargs)
		for len(args) < nargs {
			arg, next, ok := braceArg(s, pos)
			if !ok {
				break
			}
			args = append(args, arg)
			pos = next
		}
		if len(args) < nargs {
			sb.WriteString(s[:pos])
			s = s[pos:]
			continue
		}
		sb.WriteString(s[:i])
		sb.WriteString(fn(args))
		s = s[pos:]
	}
}

// braceArg reads a {...} group starting at pos.
func braceArg(s string, pos int) (string, int, bool) {
	if pos >= len(s) || s[pos] != '{' {
		return "", pos, false
	}
	depth := 0
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[pos+1 : i], i + 1, true
			}
		}
	}
	return "", pos, false
}

// scripts converts ^x / ^{xy} (or _ for subscripts) when every rune has a
// Unicode form; otherwise the marker is kept and the group parenthesized.
func scripts(s string, marker byte, table map[rune]rune) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		// "^(" is output from an inner pass that could not convert
		if s[i] != marker || i+1 >= len(s) || s[i+1] == '(' {
			sb.WriteByte(s[i])
			continue
		}
		var body string
		next := i + 2
		if arg, end, ok := braceArg(s, i+1); ok {
			body, next = arg, end
		} else {
			r := []rune(s[i+1:])[0]
			body = string(r)
			next = i + 1 + len(string(r))
		}
		if conv, ok := convertAll(body, table); ok {
			sb.WriteString(conv)
		} else {
			sb.WriteByte(marker)
			sb.WriteString(group(body))
		}
		i = next - 1
	}
	return sb.String()
}

func convertAll(s string, table map[rune]rune) (string, bool) {
	var sb strings.Builder
	for _, r := range s {
		c, ok := table[r]
		if !ok {
			return "", false
		}
		sb.WriteRune(c)
	}
	return sb.String(), s != ""
}
