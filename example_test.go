package di_test

import (
	"errors"
	"fmt"

	di "github.com/Stannieman/DI"
)

type Greeter interface {
	Greet() string
}

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type frenchGreeter struct{}

func (frenchGreeter) Greet() string { return "bonjour" }

type App struct {
	Greeters []Greeter
	Default  Greeter
}

func NewApp(greeters []Greeter) *App {
	return &App{Greeters: greeters}
}

func Example() {
	c := di.New(di.Configuration{})

	_ = di.RegisterSingleton[Greeter](c, di.Implement[englishGreeter]())
	_ = di.RegisterSingleton[Greeter](c, di.Implement[frenchGreeter]())
	_ = di.RegisterPerRequest[*App](c, di.Implement[*App](NewApp))

	app, err := di.Resolve[*App](c)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, g := range app.Greeters {
		fmt.Println(g.Greet())
	}
	// Output:
	// hello
	// bonjour
}

func ExampleContainer_GetSingleInstance() {
	c := di.New(di.Configuration{})

	_ = c.RegisterPerRequest(di.TypeOf[Greeter](), di.Implement[englishGreeter]())
	_ = c.RegisterPerRequest(di.TypeOf[Greeter](), di.Implement[frenchGreeter](), di.Key("fr"))

	fr, _ := c.GetSingleInstance(di.TypeOf[Greeter](), "fr")
	fmt.Println(fr.(Greeter).Greet())

	_ = c.RegisterPerRequest(di.TypeOf[Greeter](), di.Implement[*englishGreeter]())
	_, err := c.GetSingleInstance(di.TypeOf[Greeter](), "")
	fmt.Println(errors.Is(err, di.ErrMultipleImplementationTypesRegistered))
	// Output:
	// bonjour
	// true
}

func ExampleContainer_RegisterHandler() {
	c := di.New(di.Configuration{})

	_ = c.RegisterHandler(di.TypeOf[Greeter](), func(r di.Resolver, requester any) (any, error) {
		if requester == nil {
			return englishGreeter{}, nil
		}
		return frenchGreeter{}, nil
	})
	_ = c.RegisterPerRequest(di.TypeOf[*App](), di.Implement[*App](func(g Greeter) *App {
		return &App{Default: g}
	}))

	top, _ := di.Resolve[Greeter](c)
	app, _ := di.Resolve[*App](c)

	fmt.Println(top.Greet())
	fmt.Println(app.Default.Greet())
	// Output:
	// hello
	// bonjour
}

func ExampleContainer_OnActivated() {
	c := di.New(di.Configuration{EnablePropertyInjection: true})

	_ = c.RegisterSingleton(di.TypeOf[Greeter](), di.Implement[englishGreeter]())
	_ = c.RegisterPerRequest(di.TypeOf[*App](), di.Implement[*App]())

	detach := c.OnActivated(func(_ di.Resolver, instance any) {
		fmt.Printf("activated %T\n", instance)
	})

	app, _ := di.Resolve[*App](c)
	fmt.Println(app.Default.Greet(), len(app.Greeters))

	detach()
	_, _ = di.Resolve[*App](c)
	// Output:
	// activated di_test.englishGreeter
	// activated *di_test.App
	// hello 1
}

func ExampleContainer_RegisterSingleton() {
	c := di.New(di.Configuration{})

	_ = c.RegisterSingleton(di.TypeOf[Greeter](), di.Implement[*englishGreeter]())
	err := c.RegisterPerRequest(di.TypeOf[Greeter](), di.Implement[*englishGreeter]())

	var conflict *di.TypeAlreadyRegisteredError
	fmt.Println(errors.As(err, &conflict), conflict.ImplementationType)
	// Output:
	// true *di_test.englishGreeter
}
